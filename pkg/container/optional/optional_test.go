// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package optional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	var zero Value[int]
	require.False(t, zero.Present())
	require.Equal(t, "missing", zero.String())

	v := Some(5)
	got, ok := v.Get()
	require.True(t, ok)
	require.Equal(t, 5, got)
	require.Equal(t, "5", v.String())
	require.Equal(t, 7, None[int]().OrElse(7))
	require.Equal(t, 5, v.OrElse(7))

	require.True(t, Equal(Of(3, false), None[int]()))
	require.False(t, Equal(Of(3, true), None[int]()))
	require.True(t, Equal(Of(3, true), Some(3)))
	require.False(t, Equal(Some(3), Some(4)))
	require.Equal(t, 0, Of(3, false).Value())
}

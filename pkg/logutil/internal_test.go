// Copyright 2022 Matrix Origin
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

package logutil

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogConfig_levels(t *testing.T) {
	cfg := &LogConfig{Level: "debug", Format: "json"}
	require.Equal(t, zapcore.DebugLevel, cfg.getLevel().Level())
	require.Equal(t, zapcore.FatalLevel, cfg.getStacktraceLevel())
	require.Equal(t, 2, len(cfg.getOptions()))

	cfg.StacktraceLevel = "error"
	require.Equal(t, zapcore.ErrorLevel, cfg.getStacktraceLevel())

	cfg.Level = "loud"
	require.Panics(t, func() { cfg.getLevel() })
}

func TestSetupMOLogger_file(t *testing.T) {
	old := GetGlobalLogger()
	defer replaceGlobalLogger(old)

	file := path.Join(t.TempDir(), "json.log")
	cfg := &LogConfig{Level: "info", Format: "json", Filename: file}
	SetupMOLogger(cfg)
	require.Equal(t, 512, cfg.MaxSize)

	Info("written to file", Elapsed(time.Now()))
	Debug("filtered out")
	_ = GetGlobalLogger().Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"written to file"`)
	require.Contains(t, string(data), `"elapsed"`)
	require.NotContains(t, string(data), "filtered out")
}

func TestSetupMOLogger_panic(t *testing.T) {
	require.Panics(t, func() {
		SetupMOLogger(&LogConfig{Level: "info", Format: "xml"})
	})
	require.Panics(t, func() {
		SetupMOLogger(&LogConfig{Level: "info", Format: "json", Filename: t.TempDir()})
	})
}

func Test_getLoggerEncoder(t *testing.T) {
	entry := zapcore.Entry{Level: zapcore.WarnLevel, Message: "hello"}

	buf, err := getLoggerEncoder("json").EncodeEntry(entry, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"level":"WARN"`)

	buf, err = getLoggerEncoder("console").EncodeEntry(entry, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "WARN hello")
}

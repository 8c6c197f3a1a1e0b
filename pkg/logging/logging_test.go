/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for logger construction, the custom formatter, domain log helpers
and log file retention.
*/

package logging

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerConfigValidate tests config validation
func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Level = "loud"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.OutputDir = t.TempDir()
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate())
}

// TestCustomFormatter tests plain custom output
func TestCustomFormatter(t *testing.T) {
	f := &CustomFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.InfoLevel,
		Message: "Diff computed",
		Data:    logrus.Fields{"removed": 1, "added": 2, "took": 1500 * time.Millisecond},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO [DIFF] Diff computed added=2 removed=1 took=1.5s\n", string(out))
}

// TestDomainHelpers tests that helpers attach their fields
func TestDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = LogLevelDebug
	cfg.Format = LogFormatJSON

	l, err := NewWithWriter(cfg, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.LogRequest("abc", "GET", "http://example.test", 200, time.Second, nil)
	l.LogRequest("def", "GET", "http://example.test", 0, time.Second, errors.New("refused"))
	l.LogInference(120, 4, 2, true)
	l.LogDiff(1, 2, 3, 4)
	l.LogFilter(2, 10, 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Request completed"`)
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"msg":"Request failed"`)
	assert.Contains(t, out, `"error":"refused"`)
	assert.Contains(t, out, `"cached":true`)
	assert.Contains(t, out, `"changed":3`)
	assert.Contains(t, out, `"matched":3`)
}

// TestLogFileAndPrune tests file output and retention
func TestLogFileAndPrune(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 4; i++ {
		name := filepath.Join(dir, fmt.Sprintf("%sold-%d.log", filePrefix, i))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0644))
		past := time.Now().Add(-time.Duration(10-i) * time.Hour)
		require.NoError(t, os.Chtimes(name, past, past))
	}

	cfg := DefaultConfig()
	cfg.OutputDir = dir
	cfg.MaxFiles = 2
	cfg.Colors = false

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, l.FilePath())
	l.GetLogger().Info("hello")
	require.NoError(t, l.Close())

	files, err := ListLogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, filePrefix+"old-3.log"), files[0])
	assert.Equal(t, l.FilePath(), files[1])

	data, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

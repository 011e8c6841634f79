package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	adapter, ok := NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.DebugLevel)

	logger.Debug("rules compiled", F(FieldCount, 8))
	logger.Info("ledger normalized", F(FieldSource, "csv"))
	logger.Warn("falling back to sample data", F(FieldReason, "empty"))
	logger.Error("export failed", F(FieldReportKind, "monthly"))

	out := buf.String()
	for _, want := range []string{"rules compiled", "count=8", "source=csv", "reason=empty", "report_kind=monthly"} {
		assert.Contains(t, out, want)
	}
}

func TestLogrusAdapter_DerivedLoggers(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.InfoLevel)

	logger.
		WithField(FieldCategory, "Food").
		WithFields(F(FieldCount, 3), F(FieldSynthetic, true)).
		WithError(errors.New("boom")).
		Error("rule failed")

	out := buf.String()
	assert.Contains(t, out, "rule failed")
	assert.Contains(t, out, "category=Food")
	assert.Contains(t, out, "synthetic=true")
	assert.Contains(t, out, "boom")
}

func TestLogrusAdapter_RespectsLevel(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.WarnLevel)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("a", "x"), F("b", 42)})
	assert.Len(t, fields, 2)
	assert.Equal(t, 42, fields["b"])
	assert.Empty(t, convertFields(nil))
}

func TestMockLogger_SharedSink(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldSource, "notion")
	child.Warn("fallback")
	mock.Info("done")

	entries := mock.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, []Field{F(FieldSource, "notion")}, entries[0].Fields)
	assert.True(t, mock.HasEntry("INFO", "done"))
	assert.Len(t, mock.EntriesByLevel("WARN"), 1)
}

func TestImplementations(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}

package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{
			name:        "debug level with text format",
			level:       "debug",
			format:      "text",
			expectLevel: logrus.DebugLevel,
		},
		{
			name:        "info level with json format",
			level:       "info",
			format:      "json",
			expectLevel: logrus.InfoLevel,
		},
		{
			name:        "invalid level defaults to info",
			level:       "invalid",
			format:      "text",
			expectLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	existing := logrus.New()
	existing.SetLevel(logrus.DebugLevel)

	logger := NewLogrusAdapterFromLogger(existing)
	require.NotNil(t, logger)

	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.Same(t, existing, adapter.logger)

	nilWrapped := NewLogrusAdapterFromLogger(nil)
	require.NotNil(t, nilWrapped)
}

func TestLogrusAdapter_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(base)
	logger.WithField("user_id", 100).
		WithError(errors.New("boom")).
		Error("operation failed")

	out := buf.String()
	assert.Contains(t, out, `"user_id":100`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, "operation failed")
}

func TestLogrusAdapter_FieldsVariadic(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(base)
	logger.Info("loaded",
		Field{Key: "path", Value: "data/categories.json"},
		Field{Key: "count", Value: 5},
	)

	out := buf.String()
	assert.Contains(t, out, `"path":"data/categories.json"`)
	assert.Contains(t, out, `"count":5`)
}

func TestMockLogger(t *testing.T) {
	mock := NewMockLogger()
	mock.WithField("key", "value").Info("hello")
	mock.Warn("careful")

	entries := mock.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Contains(t, entries[0].Fields, Field{Key: "key", Value: "value"})
	assert.Equal(t, "careful", entries[1].Message)
}

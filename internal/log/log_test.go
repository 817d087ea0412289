package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", JSON: true, Output: &buf})

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("attempt", "flixhq").Debug("start")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "flixhq", entry["attempt"])
	assert.Equal(t, "start", entry["msg"])
}

func TestNewUnknownLevel(t *testing.T) {
	l := New(Options{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "debug", LevelFor(true))
	assert.Equal(t, "warning", LevelFor(false))
}

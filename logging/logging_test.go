// SPDX-License-Identifier: MIT
package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/katalvlaran/ntransport/logging"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: slog.LevelWarn, Format: logging.FormatJSON, Writer: &buf})

	log.Info("dropped")
	log.Warn("kept", "group", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "kept", rec["msg"])
	require.Equal(t, "WARN", rec["level"])
	require.EqualValues(t, 2, rec["group"])
}

func TestNewTextDefault(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Writer: &buf})
	log.Debug("hidden")
	log.Info("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")
}

func TestParse(t *testing.T) {
	lvl, err := logging.ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, lvl)

	lvl, err = logging.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	_, err = logging.ParseLevel("loud")
	require.ErrorIs(t, err, logging.ErrUnknownLevel)

	f, err := logging.ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, logging.FormatJSON, f)

	_, err = logging.ParseFormat("xml")
	require.ErrorIs(t, err, logging.ErrUnknownFormat)
}

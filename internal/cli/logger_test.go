package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, false))
	assert.Equal(t, zerolog.WarnLevel, selectLevel(false, true))
	assert.Equal(t, zerolog.InfoLevel, selectLevel(false, false))
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("check", "node").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"check":"node"`)
	assert.Contains(t, buf.String(), "shown")
}

func TestCreateLogFileWriter_RedactsSecrets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RTHEALTH_HOME", home)

	w, err := createLogFileWriter()
	require.NoError(t, err)

	secret := "npm_" + "abcdefghijklmnopqrstuvwxyz0123456789"
	_, err = w.Write([]byte(`{"message":"token ` + secret + `"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(home, "logs", "rthealth.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), secret)
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestCloseLogFile_Idempotent(t *testing.T) {
	t.Setenv("RTHEALTH_HOME", t.TempDir())

	InitLogger(false, true)
	CloseLogFile()
	CloseLogFile()
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/invorya-gst/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf}).Named("pdf")

	log.Debug().Str("invoice", "INV-20240315-0001").Msg("documento generado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "en producción la salida es JSON")
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "pdf", entry["component"])
	assert.Equal(t, "INV-20240315-0001", entry["invoice"])
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Output: &buf})

	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len(), "debug no se emite con nivel info")

	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}

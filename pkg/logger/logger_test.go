package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestNew_JSONConCamposComunes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "debug", Service: "restaurante-cliente", Out: &buf})

	log.Component("sesion").Device("0f3c9a52-7d1e-4b8a-9c41-2f6b8e0d1a77").Info().Msg("sesión iniciada")

	line := decodeLine(t, &buf)
	assert.Equal(t, "restaurante-cliente", line[FieldService])
	assert.Equal(t, "sesion", line[FieldComponent])
	assert.Equal(t, "0f3c9a52…", line[FieldDevice])
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, buf.String(), "2f6b8e0d1a77", "el id completo no llega al log")
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Out: &buf})

	log.Info().Msg("oculto")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	line := decodeLine(t, &buf)
	assert.Equal(t, "visible", line["message"])
	assert.NotContains(t, line, FieldService)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"ruido":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "nivel %q", in)
	}
}

func TestMaskDevice(t *testing.T) {
	assert.Equal(t, "", MaskDevice(""))
	assert.Equal(t, "cli", MaskDevice("cli"))
	assert.Equal(t, "abcdefgh…", MaskDevice("abcdefghijkl"))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Component("x").Device("y").Error().Msg("descartado")
	})
}

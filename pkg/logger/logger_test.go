package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop().Component("ledger")
	assert.NotPanics(t, func() { l.Info().Int64("qty", 5).Msg("ajuste") })
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
}

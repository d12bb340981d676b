package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

func TestError_UnwrapASentinel(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		code     string
	}{
		{domain.Validation("cantidad inválida"), domain.ErrInvalidInput, domain.CodeValidation},
		{domain.NotFound("orden %d no encontrada", 7), domain.ErrNotFound, domain.CodeNotFound},
		{domain.InsufficientStock("faltan %d unidades", 3), domain.ErrInsufficientStock, domain.CodeInsufficientStock},
		{domain.InvalidState("orden ya recibida"), domain.ErrInvalidState, domain.CodeInvalidState},
		{domain.Storage("save", errors.New("disk full")), domain.ErrStorage, domain.CodeStorage},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("contexto: %w", tc.err)
		assert.ErrorIs(t, wrapped, tc.sentinel)
		assert.Equal(t, tc.code, domain.CodeOf(wrapped))
	}
}

func TestStorage_ConservaCausa(t *testing.T) {
	cause := errors.New("permission denied")
	err := domain.Storage("load stock", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCodeOf_ErrorGenerico(t *testing.T) {
	assert.Equal(t, "", domain.CodeOf(errors.New("x")))
	assert.Equal(t, "", domain.CodeOf(nil))
}

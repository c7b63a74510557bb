package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain", errors.New("boom"), KindInternal},
		{"not found", NotFound("X", "missing"), KindNotFound},
		{"wrapped forbidden", fmt.Errorf("ctx: %w", Forbidden("F", "no")), KindForbidden},
		{"validation", Validation("V", "bad"), KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "DB_ERROR", "x"))

	cause := errors.New("conn reset")
	err := Wrap(cause, "DB_ERROR", "query failed")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)

	nf := NotFound("SCHEDULE_NOT_FOUND", "schedule not found")
	assert.Same(t, nf, Wrap(nf, "DB_ERROR", "ignored"))
}

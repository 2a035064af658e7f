package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewError("listing missing").Mark(ErrNotFound), http.StatusNotFound},
		{"already exists", NewError("duplicate code").Mark(ErrAlreadyExists), http.StatusConflict},
		{"validation", NewError("bad currency").Mark(ErrValidation), http.StatusBadRequest},
		{"invalid operation", NewError("promo exhausted").Mark(ErrInvalidOperation), http.StatusBadRequest},
		{"data integrity", NewError("overlapping overrides").Mark(ErrDataIntegrity), http.StatusUnprocessableEntity},
		{"upstream", NewError("rates down").Mark(ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"http client", NewError("bad gateway").Mark(ErrHTTPClient), http.StatusBadGateway},
		{"database", NewError("connection reset").Mark(ErrDatabase), http.StatusInternalServerError},
		{"unmarked", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", errors.Wrap(NewError("listing missing").Mark(ErrNotFound), "quote listing"), http.StatusNotFound},
		{"upstream wins over http client", WithError(NewError("timeout").Mark(ErrHTTPClient)).Mark(ErrUpstreamUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError("rates down").Mark(ErrUpstreamUnavailable)))
	assert.True(t, IsRetryable(NewError("bad gateway").Mark(ErrHTTPClient)))
	assert.False(t, IsRetryable(NewError("bad currency").Mark(ErrValidation)))
	assert.False(t, IsRetryable(NewError("overlap").Mark(ErrDataIntegrity)))
	assert.False(t, IsRetryable(nil))
}

func TestBuilderKeepsHintsAndDetails(t *testing.T) {
	err := NewError("promo expired").
		WithHint("Promo code is invalid or has expired").
		WithReportableDetails(map[string]any{"code": "SPRING10"}).
		Mark(ErrInvalidOperation)

	assert.True(t, IsInvalidOperation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, []string{"Promo code is invalid or has expired"}, errors.GetAllHints(err))
	assert.NotEmpty(t, errors.GetAllSafeDetails(err))
	assert.Contains(t, err.Error(), "promo expired")
}

func TestInternalErrorIs(t *testing.T) {
	wrapped := &InternalError{Code: ErrCodeNotFound, Message: "listing", Err: errors.New("no rows")}

	assert.True(t, wrapped.Is(ErrNotFound))
	assert.False(t, wrapped.Is(ErrValidation))
	assert.False(t, wrapped.Is(nil))
	assert.Equal(t, "not_found: no rows", wrapped.Error())
	assert.Equal(t, "validation_error: validation error", ErrValidation.Error())
}

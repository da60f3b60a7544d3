package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("load resume: %w", New(KindNotFound, "resume not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "resume not found", MessageOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindUpstreamUnavailable, "model unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, "model unavailable: dial tcp: connection refused", err.Error())
}

func TestKindOfPlainErrors(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindUpstreamUnavailable, KindOf(context.DeadlineExceeded))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, "unexpected server error", MessageOf(errors.New("boom")))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:      http.StatusUnauthorized,
		KindNotFound:             http.StatusNotFound,
		KindValidation:           http.StatusBadRequest,
		KindConflict:             http.StatusConflict,
		KindUpstreamUnavailable:  http.StatusServiceUnavailable,
		KindMalformedModelOutput: http.StatusBadGateway,
		KindConversionTimeout:    http.StatusGatewayTimeout,
		KindConversionFailure:    http.StatusInternalServerError,
		KindInternal:             http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, Status(kind), "kind %s", kind)
	}
}

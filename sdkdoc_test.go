package sdkdoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sdkdoc.Errorf(sdkdoc.ENOTFOUND, "page %q not found", "https://example.com")

	assert.Equal(t, sdkdoc.ENOTFOUND, sdkdoc.ErrorCode(err))
	assert.Equal(t, `page "https://example.com" not found`, sdkdoc.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, sdkdoc.ErrorCode(nil))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("saving store: %w", sdkdoc.Errorf(sdkdoc.EPERSIST, "disk full"))
		assert.Equal(t, sdkdoc.EPERSIST, sdkdoc.ErrorCode(err))
		assert.Equal(t, "disk full", sdkdoc.ErrorMessage(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		assert.Equal(t, sdkdoc.EINTERNAL, sdkdoc.ErrorCode(err))
		assert.Equal(t, "Internal error.", sdkdoc.ErrorMessage(err))
	})
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sdkdoc.ErrorMessage(nil))
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", sdkdoc.Errorf(sdkdoc.ENOTFOUND, "404"), false},
		{"forbidden", sdkdoc.Errorf(sdkdoc.EFORBIDDEN, "403"), false},
		{"transform", sdkdoc.Errorf(sdkdoc.ETRANSFORM, "empty"), false},
		{"unavailable", sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "503"), true},
		{"plain network error", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sdkdoc.Retryable(tt.err))
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	const url = "https://developer.x-plane.com/sdk/XPLMCamera/"

	assert.NoError(t, sdkdoc.StatusError(200, url))
	assert.Equal(t, sdkdoc.ENOTFOUND, sdkdoc.ErrorCode(sdkdoc.StatusError(404, url)))
	assert.Equal(t, sdkdoc.EFORBIDDEN, sdkdoc.ErrorCode(sdkdoc.StatusError(403, url)))
	assert.Equal(t, sdkdoc.EUNAVAILABLE, sdkdoc.ErrorCode(sdkdoc.StatusError(503, url)))
	assert.Equal(t, sdkdoc.EUNAVAILABLE, sdkdoc.ErrorCode(sdkdoc.StatusError(301, url)))
	assert.Contains(t, sdkdoc.ErrorMessage(sdkdoc.StatusError(500, url)), "HTTP 500")
}

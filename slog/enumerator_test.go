package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/mock"
	sdkslog "github.com/fwojciec/sdkdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEnumerator(t *testing.T) {
	t.Parallel()

	t.Run("logs source and count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Enumerator{
			EnumerateFn: func(ctx context.Context) ([]string, error) {
				return []string{
					"https://developer.x-plane.com/sdk/XPLMCamera/",
					"https://developer.x-plane.com/sdk/XPLMMenus/",
				}, nil
			},
		}

		ids, err := sdkslog.NewLoggingEnumerator(inner, "raw_data/catalog.txt", logger).Enumerate(context.Background())

		require.NoError(t, err)
		assert.Len(t, ids, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=enumerate")
		assert.Contains(t, output, "source=raw_data/catalog.txt")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs and returns failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Enumerator{
			EnumerateFn: func(ctx context.Context) ([]string, error) {
				return nil, sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "read sitemap: connection refused")
			},
		}

		ids, err := sdkslog.NewLoggingEnumerator(inner, "https://developer.x-plane.com/sitemap.xml", logger).Enumerate(context.Background())

		require.Error(t, err)
		assert.Nil(t, ids)
		assert.Equal(t, sdkdoc.EUNAVAILABLE, sdkdoc.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "connection refused")
	})
}

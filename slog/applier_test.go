package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/site2pdf/mock"
	s2pslog "github.com/fwojciec/site2pdf/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingApplier_Apply(t *testing.T) {
	t.Parallel()

	t.Run("logs input and output paths", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var gotIn, gotOut string
		inner := &mock.TextLayerApplier{
			ApplyFn: func(_ context.Context, inPath, outPath string) error {
				gotIn, gotOut = inPath, outPath
				return nil
			},
		}

		err := s2pslog.NewLoggingApplier(inner, logger).Apply(context.Background(), "output.pdf", "output_with_text.pdf")

		require.NoError(t, err)
		assert.Equal(t, "output.pdf", gotIn)
		assert.Equal(t, "output_with_text.pdf", gotOut)
		output := buf.String()
		assert.Contains(t, output, "msg=ocr")
		assert.Contains(t, output, "in=output.pdf")
		assert.Contains(t, output, "out=output_with_text.pdf")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextLayerApplier{
			ApplyFn: func(_ context.Context, _, _ string) error {
				return errors.New("tesseract missing")
			},
		}

		err := s2pslog.NewLoggingApplier(inner, logger).Apply(context.Background(), "a.pdf", "b.pdf")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"tesseract missing\"")
	})
}

package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/mock"
	s2pslog "github.com/fwojciec/site2pdf/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		err     error
		want    []string
		wantNot []string
	}{
		{
			name:    "logs size of the rendered document",
			html:    "<html>content</html>",
			want:    []string{"level=INFO", "msg=fetch", "url=https://example.test/docs", "bytes=20", "duration="},
			wantNot: []string{"err="},
		},
		{
			name:    "logs failures with their code",
			err:     site2pdf.Errorf(site2pdf.EFETCH, "navigation timeout"),
			want:    []string{"level=WARN", "msg=fetch", "code=fetch", `err="navigation timeout"`},
			wantNot: []string{"bytes="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			fetcher := s2pslog.NewLoggingFetcher(&mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return tt.html, tt.err
				},
			}, logger)

			html, err := fetcher.Fetch(context.Background(), "https://example.test/docs")

			assert.Equal(t, tt.html, html)
			assert.Equal(t, tt.err, err)
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.wantNot {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

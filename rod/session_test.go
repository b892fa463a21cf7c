//go:build integration

package rod_test

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tallPage = `<!DOCTYPE html>
<html>
<head><title>Test Page</title><style>body { margin: 0 }</style></head>
<body>
<div id="content" style="height: 2500px">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(tallPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSession(t *testing.T) *rod.Session {
	t.Helper()
	s, err := rod.NewSession(rod.WithViewport(800, 600))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSession_Navigate(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, srv.URL))

	html, err := s.HTML(ctx)
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "JavaScript Rendered"))

	height, err := s.ContentHeight(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, height, 2500)
}

func TestSession_Screenshot(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, srv.URL))
	require.NoError(t, s.SetViewport(ctx, 640, 2500))

	data, err := s.Screenshot(ctx)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 2500, cfg.Height)
}

func TestSession_ContextCancellation(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Navigate(ctx, "https://example.test/")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	s, err := rod.NewSession()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err = s.Navigate(context.Background(), "https://example.test/")
	assert.Equal(t, site2pdf.EINVALID, site2pdf.ErrorCode(err))
}

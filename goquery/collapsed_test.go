package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/site2pdf/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapsedExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when no element carries a marker", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="panel accordions">Not a match</div></body></html>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/")

		require.NoError(t, err)
		assert.Nil(t, content)
	})

	t.Run("extracts content hidden by display none", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="accordion" style="display:none"><p>Refund policy</p></div>
</body></html>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/faq")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, 1, content.Matches)
		assert.Equal(t, "https://example.test/faq", content.SourceURL)
		assert.Contains(t, content.HTML, "<p>Refund policy</p>")
		assert.Contains(t, content.HTML, "<h2>Accordion Content from https://example.test/faq</h2>")
		assert.Contains(t, content.HTML, `<meta charset="utf-8">`)
		assert.NotContains(t, content.HTML, "display:none")
	})

	t.Run("matches any marker among class tokens", func(t *testing.T) {
		t.Parallel()

		html := `<div class="faq acc_item open">One</div>
<section class="accordian">Two</section>
<li class="x accordion_item">Three</li>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, 3, content.Matches)
		one := strings.Index(content.HTML, "One")
		two := strings.Index(content.HTML, "Two")
		three := strings.Index(content.HTML, "Three")
		assert.True(t, one < two && two < three, "blocks keep document order")
	})

	t.Run("expands nested matches inside their parent", func(t *testing.T) {
		t.Parallel()

		html := `<div class="accordion"><div class="accordion_item" style="max-height: 0px; overflow:hidden">Answer</div></div>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, 2, content.Matches)
		assert.Equal(t, 2, strings.Count(content.HTML, "Answer"))
		assert.NotContains(t, content.HTML, "max-height")
	})

	t.Run("clears hidden attribute and visibility hidden", func(t *testing.T) {
		t.Parallel()

		html := `<div class="accordion"><div class="acc_item" hidden>A</div><div class="acc_item" style="VISIBILITY: hidden !important">B</div></div>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.NotContains(t, content.HTML, "hidden")
	})

	t.Run("keeps styles that do not hide", func(t *testing.T) {
		t.Parallel()

		html := `<div class="outer"><div class="accordion" style="color: red; height: 10px">Visible</div></div>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Contains(t, content.HTML, "Visible")
		assert.Equal(t, 1, content.Matches)
	})

	t.Run("escapes source URL in header", func(t *testing.T) {
		t.Parallel()

		html := `<div class="accordion">A</div>`

		content, err := goquery.NewCollapsedExtractor().Extract(html, "https://example.test/?a=1&b=<2>")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Contains(t, content.HTML, "https://example.test/?a=1&amp;b=&lt;2&gt;")
	})

	t.Run("uses custom markers", func(t *testing.T) {
		t.Parallel()

		html := `<div class="accordion">Default</div><details class="faq-entry">Custom</details>`

		content, err := goquery.NewCollapsedExtractor("faq-entry").Extract(html, "https://example.test/")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, 1, content.Matches)
		assert.Contains(t, content.HTML, "Custom")
		assert.NotContains(t, content.HTML, "Default")
	})
}

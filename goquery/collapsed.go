package goquery

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/site2pdf"
)

// Compile-time interface verification.
var _ site2pdf.CollapsedExtractor = (*CollapsedExtractor)(nil)

const blockStyle = "margin-bottom:10px;padding:10px;border:1px solid #ccc;font-family:sans-serif;"

// CollapsedExtractor pulls the content of accordion-style widgets out of a
// page into a standalone document with every block expanded.
type CollapsedExtractor struct {
	markers map[string]struct{}
}

// NewCollapsedExtractor creates an extractor matching elements that carry
// any of the given class names. With no markers it uses
// site2pdf.DefaultAccordionMarkers.
func NewCollapsedExtractor(markers ...string) *CollapsedExtractor {
	if len(markers) == 0 {
		markers = site2pdf.DefaultAccordionMarkers
	}
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return &CollapsedExtractor{markers: set}
}

// Extract returns a synthesized document holding the inner HTML of every
// element whose class list contains a marker, or nil if nothing matches.
// Inline styles hiding a matched element and the hidden attribute are
// removed before any block is serialized, so nested matches render expanded
// inside their parents too.
func (e *CollapsedExtractor) Extract(rawHTML string, sourceURL string) (*site2pdf.CollapsedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, site2pdf.Errorf(site2pdf.EINVALID, "failed to parse HTML: %v", err)
	}

	matched := doc.Find("[class]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return e.matches(sel)
	})
	if matched.Length() == 0 {
		return nil, nil
	}

	matched.Each(func(_ int, sel *goquery.Selection) {
		if style, ok := sel.Attr("style"); ok && isHidingStyle(style) {
			sel.RemoveAttr("style")
		}
		sel.RemoveAttr("hidden")
	})

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<style>body { font-family: sans-serif; padding: 20px; }</style>\n")
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h2>Accordion Content from %s</h2>\n", html.EscapeString(sourceURL))

	var serr error
	matched.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		inner, err := sel.Html()
		if err != nil {
			serr = err
			return false
		}
		fmt.Fprintf(&b, "<div style='%s'>%s</div>\n", blockStyle, inner)
		return true
	})
	if serr != nil {
		return nil, site2pdf.Errorf(site2pdf.EINTERNAL, "failed to serialize collapsed content: %v", serr)
	}

	b.WriteString("</body>\n</html>\n")

	return &site2pdf.CollapsedContent{
		SourceURL: sourceURL,
		HTML:      b.String(),
		Matches:   matched.Length(),
	}, nil
}

func (e *CollapsedExtractor) matches(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	for _, token := range strings.Fields(class) {
		if _, ok := e.markers[token]; ok {
			return true
		}
	}
	return false
}

// isHidingStyle reports whether an inline style hides the element or
// collapses it to zero height.
func isHidingStyle(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))

		switch prop {
		case "display":
			if value == "none" {
				return true
			}
		case "visibility":
			if value == "hidden" {
				return true
			}
		case "height", "max-height":
			if isZeroLength(value) {
				return true
			}
		}
	}
	return false
}

func isZeroLength(value string) bool {
	num := strings.TrimRightFunc(value, func(r rune) bool {
		return r == '%' || (r >= 'a' && r <= 'z')
	})
	if num == "" {
		return false
	}
	f, err := strconv.ParseFloat(num, 64)
	return err == nil && f == 0
}

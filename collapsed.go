package site2pdf

// DefaultAccordionMarkers are the class names treated as collapsible content.
var DefaultAccordionMarkers = []string{"accordion", "accordian", "acc_item", "accordion_item"}

// CollapsedContent is a synthesized HTML document holding the content of
// every accordion element found on a page, with hiding styles removed.
type CollapsedContent struct {
	SourceURL string
	HTML      string
	Matches   int
}

// CollapsedExtractor finds accordion content in rendered HTML.
type CollapsedExtractor interface {
	// Extract returns nil when no element carries an accordion marker class.
	Extract(html string, sourceURL string) (*CollapsedContent, error)
}

package ingestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
)

// blockSelectors are elements rendered as their own line when flattening HTML
var blockSelectors = "p, li, h1, h2, h3, h4, h5, h6, div, section, article, tr, br"

// ExtractHTML flattens an HTML document (e.g. a resume exported from a word
// processor or a profile page saved as HTML) into plain text suitable for
// NormalizeLines, plus extraction statistics. List items come out as dash
// bullets so downstream glyph detection keeps working.
func ExtractHTML(r io.Reader) (string, diagnostics.ExtractionStats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", diagnostics.ExtractionStats{}, &ExtractError{
			Message: "failed to parse HTML document",
			Cause:   err,
		}
	}

	// Drop non-content elements before flattening
	doc.Find("script, style, noscript, head").Remove()

	var sb strings.Builder
	doc.Find(blockSelectors).Each(func(_ int, sel *goquery.Selection) {
		// Only take leaf-ish blocks; containers repeat their children's text
		if sel.Children().Filter(blockSelectors).Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(sel) == "li" && !IsBulletLine(text) {
			text = "- " + text
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// Fall back to the full body text for documents without block structure
		text = strings.TrimSpace(doc.Find("body").Text())
	}

	cleaned := CleanText(text)
	return cleaned, ComputeExtractionStats(cleaned), nil
}

// ExtractError represents a failure to read or parse an input document
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error: %s", e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

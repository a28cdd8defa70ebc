// Package ingestion turns raw extracted text into normalized source lines
// and extraction statistics consumed by the segmentation pipeline.
package ingestion

import (
	"regexp"
	"strings"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/types"
)

// bulletGlyphs are the markers recognized as structural bullet prefixes
var bulletGlyphs = []string{"-", "*", "•", "·", "▪", "●", "◦", "‣", "–", ">"}

var multiSpaceRe = regexp.MustCompile(`\s+`)

// CleanText normalizes raw extracted text while preserving line structure:
// CRLF to LF, per-line whitespace collapse, and trailing blank-run reduction.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF -> LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Clean each line individually
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	// 3. Collapse runs of 3+ blank lines to 2
	result := strings.Join(cleaned, "\n")
	result = regexp.MustCompile(`\n\n\n+`).ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine trims a single line and collapses interior whitespace while
// keeping a recognized bullet glyph prefix intact.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return multiSpaceRe.ReplaceAllString(trimmed, " ")
}

// NormalizeLines produces the ordered source-line sequence for a parse
// attempt. Blank lines are preserved (they carry grouping signal for the
// strategies) and every line keeps its original index for traceability.
func NormalizeLines(text string) []types.SourceLine {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}
	raw := strings.Split(cleaned, "\n")
	lines := make([]types.SourceLine, len(raw))
	for i, t := range raw {
		lines[i] = types.SourceLine{Index: i, Text: t}
	}
	return lines
}

// BulletGlyph returns the recognized bullet glyph prefixing the line, or "".
// A line that is nothing but a glyph still counts; extractors emit those when
// a bullet and its text land in different layout columns.
func BulletGlyph(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, g := range bulletGlyphs {
		if trimmed == g || strings.HasPrefix(trimmed, g+" ") {
			return g
		}
	}
	return ""
}

// IsBulletLine reports whether a line starts with a recognized bullet glyph
func IsBulletLine(line string) bool {
	return BulletGlyph(line) != ""
}

// StripBullet removes a leading bullet glyph and surrounding whitespace
func StripBullet(line string) string {
	trimmed := strings.TrimSpace(line)
	if g := BulletGlyph(trimmed); g != "" {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, g))
	}
	return trimmed
}

// ComputeExtractionStats derives basic extraction statistics from plain text.
// When the external extractor supplies its own statistics those win; this is
// the fallback for text pasted or read directly from a .txt file.
func ComputeExtractionStats(text string) diagnostics.ExtractionStats {
	stats := diagnostics.ExtractionStats{ExtractedChars: len(text)}
	if text == "" {
		return stats
	}

	glyphCounts := make(map[string]int)
	for _, line := range NormalizeLines(text) {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		stats.DetectedLinesCount++
		if g := BulletGlyph(line.Text); g != "" {
			stats.BulletCandidatesCount++
			glyphCounts[g]++
			if StripBullet(line.Text) == "" {
				stats.BulletOnlyLineCount++
			}
		}
	}

	for g, count := range glyphCounts {
		stats.TopBulletGlyphs = append(stats.TopBulletGlyphs, diagnostics.GlyphCount{Glyph: g, Count: count})
	}
	return stats
}

package diagnostics

import (
	"fmt"
	"sort"
)

// previewLineLimit caps the numbered source-line preview stored with diagnostics
const previewLineLimit = 40

// layoutCollapseSlack is how far above the page count a line count may sit
// before it stops looking like a collapsed multi-column layout.
const layoutCollapseSlack = 3

// Collector accumulates stage counters and reason codes for a single strategy
// attempt and freezes them into a ParseDiagnostics. A collector is used for
// exactly one attempt; re-parses build a fresh one.
type Collector struct {
	mode    string
	diag    ParseDiagnostics
	reasons map[ReasonCode]bool
	order   []ReasonCode
	glyphs  map[string]int
}

// NewCollector creates a collector for one strategy attempt
func NewCollector(mode string, extraction ExtractionStats) *Collector {
	return &Collector{
		mode:    mode,
		diag:    ParseDiagnostics{Mode: mode, Extraction: extraction},
		reasons: make(map[ReasonCode]bool),
		glyphs:  make(map[string]int),
	}
}

// AddReason records a reason code once; duplicates are ignored
func (c *Collector) AddReason(code ReasonCode) {
	if c.reasons[code] {
		return
	}
	c.reasons[code] = true
	c.order = append(c.order, code)
}

// CountGlyph bumps the histogram entry for a bullet glyph
func (c *Collector) CountGlyph(glyph string) {
	c.glyphs[glyph]++
}

// SetLinePreview stores a numbered preview of the normalized source lines
func (c *Collector) SetLinePreview(lines []string) {
	limit := min(len(lines), previewLineLimit)
	preview := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		preview = append(preview, fmt.Sprintf("%3d| %s", i+1, lines[i]))
	}
	c.diag.LinePreview = preview
}

// FinishSegmentation records line-level counters and emits segmentation-stage
// reason codes declaratively from the observed counts.
func (c *Collector) FinishSegmentation(stats SegmentationStats) {
	stats.GlyphHistogram = c.topGlyphs(5)
	c.diag.Segmentation = stats

	if stats.BulletCandidateCount == 0 && c.diag.Extraction.ExtractedChars > 0 {
		c.AddReason(ReasonBulletDetectFail)
	}
	// A line count that collapses to near the page count signals a
	// multi-column PDF artifact.
	if c.diag.Extraction.PageCount > 0 &&
		stats.LineCount > 0 &&
		stats.LineCount <= c.diag.Extraction.PageCount+layoutCollapseSlack {
		c.AddReason(ReasonLayoutCollapse)
	}
}

// FinishMapping records entity-level counters and emits mapping-stage reason
// codes declaratively from the observed counts.
func (c *Collector) FinishMapping(stats MappingStats) {
	c.diag.Mapping = stats

	if c.diag.Extraction.ExtractedChars == 0 {
		return
	}
	if stats.Companies == 0 {
		c.AddReason(ReasonCompanyDetectFail)
	}
	if stats.Roles == 0 {
		c.AddReason(ReasonRoleDetectFail)
	}
	if stats.ItemCandidates > 0 && stats.Items == 0 {
		c.AddReason(ReasonFilteredAll)
	}
}

// Diagnostics freezes the collector into its ParseDiagnostics record
func (c *Collector) Diagnostics() ParseDiagnostics {
	d := c.diag
	d.ReasonCodes = append([]ReasonCode(nil), c.order...)
	return d
}

// topGlyphs returns the n most frequent glyphs, ties broken by glyph text
func (c *Collector) topGlyphs(n int) []GlyphCount {
	if len(c.glyphs) == 0 {
		return nil
	}
	out := make([]GlyphCount, 0, len(c.glyphs))
	for g, count := range c.glyphs {
		out = append(out, GlyphCount{Glyph: g, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Glyph < out[j].Glyph
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

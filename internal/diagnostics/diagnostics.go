// Package diagnostics accumulates per-parse-attempt counters and reason codes
// explaining why a segmentation strategy under- or over-produced structure.
package diagnostics

// ReasonCode is a diagnostic flag explaining a structural parsing shortfall.
// Reason codes are recoverable by design: they degrade output quality but the
// pipeline still yields a usable draft.
type ReasonCode string

// Reason code constants
const (
	ReasonTextEmpty         ReasonCode = "TEXT_EMPTY"
	ReasonBulletDetectFail  ReasonCode = "BULLET_DETECT_FAIL"
	ReasonLayoutCollapse    ReasonCode = "LAYOUT_COLLAPSE"
	ReasonFilteredAll       ReasonCode = "FILTERED_ALL"
	ReasonRoleDetectFail    ReasonCode = "ROLE_DETECT_FAIL"
	ReasonCompanyDetectFail ReasonCode = "COMPANY_DETECT_FAIL"
)

// CollapseReasonCodes are the codes that disqualify a candidate and force the
// low-quality flag regardless of output volume.
var CollapseReasonCodes = []ReasonCode{
	ReasonFilteredAll,
	ReasonLayoutCollapse,
	ReasonRoleDetectFail,
	ReasonCompanyDetectFail,
}

// IsCollapseReason reports whether a code is in the disqualifying set
func IsCollapseReason(code ReasonCode) bool {
	for _, c := range CollapseReasonCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Guidance translates a reason code into action-oriented, jargon-free text
// suitable for direct display to the user.
func Guidance(code ReasonCode) string {
	switch code {
	case ReasonTextEmpty:
		return "We couldn't find any text in this document. Try uploading a different file or pasting the text directly."
	case ReasonBulletDetectFail:
		return "No bullet points were found. Try another import method, or reformat accomplishments as a bulleted list."
	case ReasonLayoutCollapse:
		return "This document's layout didn't convert cleanly (multi-column files often don't). Try exporting a single-column version."
	case ReasonFilteredAll:
		return "We found text but couldn't turn any of it into accomplishments. Try another import method or add at least one role manually."
	case ReasonRoleDetectFail:
		return "No job titles were detected. Add at least one role manually, or try another import method."
	case ReasonCompanyDetectFail:
		return "No company names were detected. Add your employers manually, or try another import method."
	default:
		return "Something about this document was hard to read. Try another import method."
	}
}

// GlyphCount is one entry of a bullet-glyph histogram
type GlyphCount struct {
	Glyph string `json:"glyph"`
	Count int    `json:"count"`
}

// ExtractionStats is passed through from the external text extractor.
// The core never derives these; it only records and reasons over them.
type ExtractionStats struct {
	PageCount             int          `json:"page_count,omitempty"`
	ExtractedChars        int          `json:"extracted_chars"`
	DetectedLinesCount    int          `json:"detected_lines_count"`
	BulletCandidatesCount int          `json:"bullet_candidates_count"`
	BulletOnlyLineCount   int          `json:"bullet_only_line_count"`
	TopBulletGlyphs       []GlyphCount `json:"top_bullet_glyphs,omitempty"`
}

// SegmentationStats holds line-level counters for one strategy attempt
type SegmentationStats struct {
	LineCount            int          `json:"line_count"`
	BlankLineCount       int          `json:"blank_line_count"`
	BulletCandidateCount int          `json:"bullet_candidate_count"`
	SectionHeaderCount   int          `json:"section_header_count"`
	GlyphHistogram       []GlyphCount `json:"glyph_histogram,omitempty"`
}

// MappingStats holds entity-level counters for one strategy attempt.
// Candidate counts are pre-collapse; the plain counts are final.
type MappingStats struct {
	CompanyCandidates   int `json:"company_candidates"`
	RoleCandidates      int `json:"role_candidates"`
	TimeframeCandidates int `json:"timeframe_candidates"`
	ItemCandidates      int `json:"item_candidates"`
	Companies           int `json:"companies"`
	Roles               int `json:"roles"`
	Items               int `json:"items"`
}

// CandidateReport summarizes one strategy's scored output for the debug report
type CandidateReport struct {
	Mode        string       `json:"mode"`
	Score       float64      `json:"score"`
	ReasonCodes []ReasonCode `json:"reason_codes,omitempty"`
	Counts      MappingStats `json:"counts"`
}

// ParseDiagnostics is the write-once record of one parse attempt. When
// multiple strategies were attempted, Candidates holds every strategy's
// scored summary and the top-level stats describe the selected one.
type ParseDiagnostics struct {
	Mode         string            `json:"mode"`
	Extraction   ExtractionStats   `json:"extraction"`
	Segmentation SegmentationStats `json:"segmentation"`
	Mapping      MappingStats      `json:"mapping"`
	ReasonCodes  []ReasonCode      `json:"reason_codes,omitempty"`
	LinePreview  []string          `json:"line_preview,omitempty"`
	Candidates   []CandidateReport `json:"candidates,omitempty"`
}

// HasReason reports whether the diagnostics contain the given code
func (d *ParseDiagnostics) HasReason(code ReasonCode) bool {
	for _, c := range d.ReasonCodes {
		if c == code {
			return true
		}
	}
	return false
}

// HasCollapseReason reports whether any disqualifying code fired
func (d *ParseDiagnostics) HasCollapseReason() bool {
	for _, c := range d.ReasonCodes {
		if IsCollapseReason(c) {
			return true
		}
	}
	return false
}

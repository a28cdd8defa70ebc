package parsing

import (
	"strings"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/selection"
	"github.com/jkaplan/jobtrail/internal/types"
)

// Options carries the optional inputs of a parse attempt
type Options struct {
	// Extraction is the external extractor's statistics. Nil means the input
	// is plain text and basic statistics are derived from it directly.
	Extraction *diagnostics.ExtractionStats
	// Tuning overrides the scorer configuration. Zero value uses defaults.
	Tuning selection.Tuning
}

// Result is the output of one parse attempt: the editable draft, the frozen
// diagnostics record, and the derived low-quality flag.
type Result struct {
	Draft       types.ImportDraft
	Diagnostics diagnostics.ParseDiagnostics
	LowQuality  bool
	// Lines is the normalized source-line sequence the draft's SourceRefs
	// index into.
	Lines []types.SourceLine
}

// Parse runs a single forced segmentation strategy over the input text.
// It never fails: empty or malformed input degrades into reason codes and an
// empty-safe draft.
func Parse(text string, mode Mode, opts Options) Result {
	if !mode.Valid() {
		mode = ModeDefault
	}
	result := parseCandidate(text, mode, opts)
	result.LowQuality = selection.LowQuality(selection.Candidate{
		Mode:        string(mode),
		Draft:       result.Draft,
		Diagnostics: result.Diagnostics,
	}, opts.Tuning)
	return result
}

// ParseBest runs every registered strategy and picks the highest-scoring
// candidate. The selected result's diagnostics carry the per-candidate
// score reports.
func ParseBest(text string, opts Options) Result {
	if isEmptyInput(text) {
		return emptyResult(ModeDefault, opts)
	}

	candidates := make([]selection.Candidate, 0, len(AllModes))
	results := make([]Result, 0, len(AllModes))
	for _, mode := range AllModes {
		r := parseCandidate(text, mode, opts)
		results = append(results, r)
		candidates = append(candidates, selection.Candidate{
			Mode:        string(mode),
			Draft:       r.Draft,
			Diagnostics: r.Diagnostics,
		})
	}

	best, reports := selection.SelectBest(candidates, opts.Tuning)
	winner := results[best]
	winner.Diagnostics.Candidates = reports
	winner.LowQuality = selection.LowQuality(candidates[best], opts.Tuning)
	return winner
}

// parseCandidate runs one strategy end to end: normalize, segment, map,
// collect diagnostics.
func parseCandidate(text string, mode Mode, opts Options) Result {
	if isEmptyInput(text) {
		return emptyResult(mode, opts)
	}

	lines := ingestion.NormalizeLines(text)
	collector := diagnostics.NewCollector(string(mode), extractionStats(text, opts))

	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}
	collector.SetLinePreview(texts)

	collector.FinishSegmentation(segmentationStats(lines, collector))

	segs := strategyFor(mode).Segment(lines)
	draft := mapSegments(segs, true, collector)

	return Result{Draft: draft, Diagnostics: collector.Diagnostics(), Lines: lines}
}

// segmentationStats scans the normalized lines for line-level counters,
// feeding the glyph histogram as a side effect.
func segmentationStats(lines []types.SourceLine, collector *diagnostics.Collector) diagnostics.SegmentationStats {
	var stats diagnostics.SegmentationStats
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			stats.BlankLineCount++
			continue
		}
		stats.LineCount++
		if g := ingestion.BulletGlyph(text); g != "" {
			stats.BulletCandidateCount++
			collector.CountGlyph(g)
		}
		if IsSectionHeader(text) {
			stats.SectionHeaderCount++
		}
	}
	return stats
}

// extractionStats prefers the external extractor's numbers over derived ones
func extractionStats(text string, opts Options) diagnostics.ExtractionStats {
	if opts.Extraction != nil {
		return *opts.Extraction
	}
	return ingestion.ComputeExtractionStats(text)
}

// emptyResult is the canonical response to empty or whitespace-only input:
// an empty draft and exactly one TEXT_EMPTY reason code.
func emptyResult(mode Mode, opts Options) Result {
	collector := diagnostics.NewCollector(string(mode), extractionStats("", opts))
	collector.AddReason(diagnostics.ReasonTextEmpty)
	return Result{
		Draft:       types.ImportDraft{},
		Diagnostics: collector.Diagnostics(),
		LowQuality:  true,
	}
}

// isEmptyInput reports whether the input has no usable text
func isEmptyInput(text string) bool {
	return strings.TrimSpace(text) == ""
}

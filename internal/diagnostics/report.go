package diagnostics

import (
	"encoding/json"
	"fmt"
	"time"
)

// BuildInfo identifies the binary that produced a debug report
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

// SourceInfo describes the input document a parse attempt ran on
type SourceInfo struct {
	Kind     string `json:"kind"` // "plain_text", "html", "file"
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// DebugReport is a stable, serializable document attached to bug reports.
// It carries the full diagnostics snapshot including per-candidate scores.
type DebugReport struct {
	GeneratedAt string           `json:"generated_at"` // RFC3339
	Build       BuildInfo        `json:"build"`
	Source      SourceInfo       `json:"source"`
	LowQuality  bool             `json:"low_quality"`
	Diagnostics ParseDiagnostics `json:"diagnostics"`
	Totals      ReportTotals     `json:"totals"`
}

// ReportTotals summarizes the selected candidate's final output volume
type ReportTotals struct {
	Companies       int `json:"companies"`
	Roles           int `json:"roles"`
	Items           int `json:"items"`
	StructuredItems int `json:"structured_items"`
}

// NewDebugReport assembles a debug report from a parse attempt's outputs
func NewDebugReport(build BuildInfo, source SourceInfo, diag ParseDiagnostics, lowQuality bool, totals ReportTotals) *DebugReport {
	return &DebugReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Build:       build,
		Source:      source,
		LowQuality:  lowQuality,
		Diagnostics: diag,
		Totals:      totals,
	}
}

// ToJSON marshals the report to pretty-printed JSON
func (r *DebugReport) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal debug report: %w", err)
	}
	return jsonBytes, nil
}

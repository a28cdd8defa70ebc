// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDiagnostics outputs a human-readable summary of one parse attempt.
func (p *Printer) PrintDiagnostics(diag *diagnostics.ParseDiagnostics) {
	if diag == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategy:  %s\n", diag.Mode))
	sb.WriteString(fmt.Sprintf("Lines:     %d total, %d blank\n",
		diag.Segmentation.LineCount, diag.Segmentation.BlankLineCount))
	sb.WriteString(fmt.Sprintf("Bullets:   %d candidates, %d section headers\n",
		diag.Segmentation.BulletCandidateCount, diag.Segmentation.SectionHeaderCount))
	sb.WriteString(fmt.Sprintf("Mapped:    %d companies, %d roles, %d items\n",
		diag.Mapping.Companies, diag.Mapping.Roles, diag.Mapping.Items))

	if len(diag.ReasonCodes) > 0 {
		sb.WriteString("\nReason Codes:\n")
		for _, code := range diag.ReasonCodes {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", code))
			guidance := diagnostics.Guidance(code)
			if guidance != "" {
				if len(guidance) > 48 {
					guidance = guidance[:45] + "..."
				}
				sb.WriteString(fmt.Sprintf("    %s\n", guidance))
			}
		}
	}

	p.printBox("PARSE DIAGNOSTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs every attempted strategy with its score, marking
// the selected one.
func (p *Printer) PrintCandidates(reports []diagnostics.CandidateReport, selected string) {
	if len(reports) == 0 {
		return
	}

	var sb strings.Builder
	for i, report := range reports {
		marker := " "
		if report.Mode == selected {
			marker = "►"
		}
		sb.WriteString(fmt.Sprintf("%s %-10s score %6.1f\n", marker, report.Mode, report.Score))
		sb.WriteString(fmt.Sprintf("    %d companies, %d roles, %d items\n",
			report.Counts.Companies, report.Counts.Roles, report.Counts.Items))
		if len(report.ReasonCodes) > 0 {
			codes := make([]string, len(report.ReasonCodes))
			for j, code := range report.ReasonCodes {
				codes[j] = string(code)
			}
			joined := strings.Join(codes, ", ")
			if len(joined) > 46 {
				joined = joined[:43] + "..."
			}
			sb.WriteString(fmt.Sprintf("    [%s]\n", joined))
		}
		if i < len(reports)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STRATEGY CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs the company/role tree of an import draft.
func (p *Printer) PrintDraft(d *types.ImportDraft) {
	if d == nil || len(d.Companies) == 0 {
		return
	}

	var sb strings.Builder
	for ci := range d.Companies {
		company := &d.Companies[ci]
		name := company.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s\n", name))
		for ri := range company.Roles {
			role := &company.Roles[ri]
			title := role.Title
			if len(title) > 32 {
				title = title[:29] + "..."
			}
			dates := role.StartDate
			if role.EndDate != "" {
				dates += " - " + role.EndDate
			}
			sb.WriteString(fmt.Sprintf("  %s", title))
			if dates != "" {
				sb.WriteString(fmt.Sprintf("  (%s)", dates))
			}
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("    %d highlights, %d outcomes, %d tools, %d skills\n",
				len(role.Highlights), len(role.Outcomes), len(role.Tools), len(role.Skills)))
		}
		if ci < len(d.Companies)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("IMPORT DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrefill outputs the derived profile prefill suggestion.
func (p *Printer) PrintPrefill(prefill *draft.Prefill) {
	if prefill == nil || (prefill.Name == "" && prefill.Headline == "" && len(prefill.TopSkills) == 0) {
		return
	}

	var sb strings.Builder
	if prefill.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:      %s\n", prefill.Name))
	}
	if prefill.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline:  %s\n", prefill.Headline))
	}
	if len(prefill.TopSkills) > 0 {
		skills := strings.Join(prefill.TopSkills, ", ")
		if len(skills) > 42 {
			skills = skills[:39] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", skills))
	}

	p.printBox("PROFILE PREFILL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClaims outputs saved ledger claims grouped under their text.
func (p *Printer) PrintClaims(claims []types.Claim) {
	if len(claims) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CLAIMS IN LEDGER")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total claims: %d\n\n", len(claims)))

	count := min(len(claims), maxItemsToShow)
	for i := 0; i < count; i++ {
		claim := claims[i]
		text := claim.Text
		if len(text) > 44 {
			text = text[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", text))
		sb.WriteString(fmt.Sprintf("  %s  %.2f  %s\n", claim.Type, claim.Confidence, claim.Verification))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(claims) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more claims", len(claims)-maxItemsToShow))
	}

	p.printBox("CLAIM LEDGER", sb.String())
}

// PrintLowQualityWarning flags a parse attempt that fell below the quality
// floor, with the codes that caused it.
func (p *Printer) PrintLowQualityWarning(diag *diagnostics.ParseDiagnostics) {
	var sb strings.Builder
	sb.WriteString("The parse produced too little structure to\n")
	sb.WriteString("trust. Review the draft carefully or re-run\n")
	sb.WriteString("with a forced strategy.\n")

	if diag != nil && len(diag.ReasonCodes) > 0 {
		sb.WriteString("\n")
		for _, code := range diag.ReasonCodes {
			if diagnostics.IsCollapseReason(code) {
				sb.WriteString(fmt.Sprintf("  ⚠ %s\n", code))
			}
		}
	}

	p.printBox("⚠ LOW QUALITY PARSE", strings.TrimSuffix(sb.String(), "\n"))
}

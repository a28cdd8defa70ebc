package draft

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/types"
)

// maxPrefillSkills caps the suggested tag list
const maxPrefillSkills = 5

// nameScanLimit is how many leading lines are considered for the name guess
const nameScanLimit = 5

// Prefill is a best-effort profile suggestion derived from a parsed draft.
// Empty fields mean no confident guess; the caller should leave them blank
// rather than invent values.
type Prefill struct {
	Name      string   `json:"name,omitempty"`
	Headline  string   `json:"headline,omitempty"`
	TopSkills []string `json:"top_skills,omitempty"`
}

// DerivePrefill builds a profile suggestion from the draft tree and the
// leading normalized source lines. The headline comes from the most confident
// detected role, the skill list from the most frequent tool and skill tags,
// and the name from the first line that looks like a person's name rather
// than a header.
func DerivePrefill(d *types.ImportDraft, lines []types.SourceLine) Prefill {
	return Prefill{
		Name:      guessName(d, lines),
		Headline:  bestHeadline(d),
		TopSkills: topTags(d),
	}
}

// bestHeadline returns "Title at Company" for the highest-confidence detected
// role, or just the title when the company is the sentinel.
func bestHeadline(d *types.ImportDraft) string {
	var best *types.ImportDraftRole
	var bestCompany string
	for ci := range d.Companies {
		company := &d.Companies[ci]
		for ri := range company.Roles {
			role := &company.Roles[ri]
			if types.IsUnassignedCompany(role.Title) {
				continue
			}
			if best == nil || role.Confidence > best.Confidence {
				best = role
				bestCompany = company.Name
			}
		}
	}
	if best == nil {
		return ""
	}
	if types.IsUnassignedCompany(bestCompany) {
		return best.Title
	}
	return best.Title + " at " + bestCompany
}

// topTags returns the most frequent tool/skill texts across the draft,
// highest count first, ties alphabetical.
func topTags(d *types.ImportDraft) []string {
	counts := map[string]int{}
	display := map[string]string{}
	for ci := range d.Companies {
		for ri := range d.Companies[ci].Roles {
			role := &d.Companies[ci].Roles[ri]
			for _, item := range append(append([]types.ImportDraftItem{}, role.Tools...), role.Skills...) {
				key := strings.ToLower(strings.TrimSpace(item.Text))
				if key == "" {
					continue
				}
				counts[key]++
				if _, seen := display[key]; !seen {
					display[key] = strings.TrimSpace(item.Text)
				}
			}
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > maxPrefillSkills {
		keys = keys[:maxPrefillSkills]
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = display[k]
	}
	return out
}

// guessName scans the first few lines for something name-shaped: two to four
// capitalized words, no digits, not a bullet, and not a company the parser
// already claimed.
func guessName(d *types.ImportDraft, lines []types.SourceLine) string {
	companyNames := map[string]bool{}
	for i := range d.Companies {
		companyNames[strings.ToLower(d.Companies[i].Name)] = true
	}
	scanned := 0
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if scanned++; scanned > nameScanLimit {
			break
		}
		if ingestion.IsBulletLine(text) || companyNames[strings.ToLower(text)] {
			continue
		}
		if looksLikeName(text) {
			return text
		}
	}
	return ""
}

func looksLikeName(text string) bool {
	if strings.ContainsAny(text, "0123456789@|,:;") {
		return false
	}
	words := strings.Fields(text)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
		// All-caps section headers are not names.
		if len(w) > 1 && strings.ToUpper(w) == w {
			return false
		}
	}
	return true
}

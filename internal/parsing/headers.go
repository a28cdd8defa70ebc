package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// Known resume section headings ("EXPERIENCE", "Skills:", ...). Section
// headers delimit groups but are never companies or items themselves.
var sectionHeaderRe = regexp.MustCompile(`(?i)^(work\s+)?(experience|employment(\s+history)?|education|skills?|projects?|summary|profile|certifications?|awards?|volunteering|interests|languages|tools?)\s*:?$`)

// roleTitleKeywords signal a job title inside a header line
var roleTitleKeywords = []string{
	"engineer", "developer", "manager", "director", "lead", "head of",
	"analyst", "designer", "consultant", "specialist", "coordinator",
	"intern", "associate", "architect", "scientist", "administrator",
	"officer", "president", "founder", "co-founder", "vp", "vice president",
	"marketer", "recruiter", "strategist", "producer", "editor", "writer",
}

// companySuffixes are strong company-name signals
var companySuffixes = []string{
	"inc", "inc.", "llc", "ltd", "ltd.", "corp", "corp.", "co.", "gmbh",
	"plc", "labs", "technologies", "systems", "studio", "studios", "group",
	"partners", "agency", "ventures", "media", "software",
}

const (
	maxHeaderLineLen  = 80
	maxCompanyWordLen = 6
)

// IsSectionHeader reports whether a line is a resume section heading
func IsSectionHeader(line string) bool {
	return sectionHeaderRe.MatchString(strings.TrimSpace(line))
}

// IsAllCapsLine reports whether a line's letters are all uppercase (and it has some)
func IsAllCapsLine(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// LooksLikeRoleHeader reports whether a line reads as a role title header:
// either it carries a date range, or it is a short line containing a known
// title keyword.
func LooksLikeRoleHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeaderLineLen {
		return false
	}
	if IsSectionHeader(trimmed) {
		return false
	}
	if HasDateRange(trimmed) {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range roleTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// LooksLikeCompanyHeader reports whether a line reads as a company name:
// short, capitalized, not a sentence, not a bullet, not a section heading.
func LooksLikeCompanyHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || IsSectionHeader(trimmed) {
		return false
	}
	words := strings.Fields(trimmed)
	if len(words) == 0 || len(words) > maxCompanyWordLen {
		return false
	}
	if strings.HasSuffix(trimmed, ".") && !hasCompanySuffix(trimmed) {
		return false
	}
	first := []rune(words[0])
	if !unicode.IsUpper(first[0]) && !unicode.IsDigit(first[0]) {
		return false
	}
	return true
}

// hasCompanySuffix reports whether a line ends in a strong company signal
func hasCompanySuffix(line string) bool {
	words := strings.Fields(strings.ToLower(line))
	if len(words) == 0 {
		return false
	}
	last := strings.Trim(words[len(words)-1], ",")
	for _, s := range companySuffixes {
		if last == s {
			return true
		}
	}
	return false
}

package parsing

import (
	"regexp"
	"strings"
)

// Date-range patterns recognized in role header lines. Order matters: more
// specific month-name forms are tried before bare year ranges.
var (
	monthName = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`
	rangeSep  = `\s*(?:-|–|—|to|through)\s*`
	presentRe = regexp.MustCompile(`(?i)^(?:present|current|now|ongoing)$`)

	monthYearRangeRe = regexp.MustCompile(`(?i)\b(` + monthName + `\s+\d{4})` + rangeSep + `(` + monthName + `\s+\d{4}|present|current|now|ongoing)\b`)
	numericRangeRe   = regexp.MustCompile(`(?i)\b(\d{1,2}/\d{4})` + rangeSep + `(\d{1,2}/\d{4}|present|current|now|ongoing)\b`)
	yearRangeRe      = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})` + rangeSep + `((?:19|20)\d{2}|present|current|now|ongoing)\b`)
	monthYearOpenRe  = regexp.MustCompile(`(?i)\b(` + monthName + `\s+\d{4})\s*(?:-|–|—)?\s*$`)
	sinceYearRe      = regexp.MustCompile(`(?i)\bsince\s+((?:19|20)\d{2})\b`)
)

// dateRangeRes are the closed-range patterns, tried in order
var dateRangeRes = []*regexp.Regexp{monthYearRangeRe, numericRangeRe, yearRangeRe}

// ExtractDateRange finds the first recognized date range in a line.
// An end reading as "present"/"current" is normalized to the literal
// "Present"; open-ended forms ("Since 2021", trailing "Jan 2022 -") return an
// empty end, which downstream also means the role is current.
func ExtractDateRange(line string) (start, end string, ok bool) {
	for _, re := range dateRangeRes {
		if m := re.FindStringSubmatch(line); m != nil {
			return normalizeDateToken(m[1]), normalizeDateToken(m[2]), true
		}
	}
	if m := sinceYearRe.FindStringSubmatch(line); m != nil {
		return m[1], "", true
	}
	if m := monthYearOpenRe.FindStringSubmatch(line); m != nil {
		return normalizeDateToken(m[1]), "", true
	}
	return "", "", false
}

// StripDateRange removes the recognized date range (and dangling separators)
// from a line, leaving the title portion of a role header.
func StripDateRange(line string) string {
	out := line
	for _, re := range append(dateRangeRes, sinceYearRe, monthYearOpenRe) {
		out = re.ReplaceAllString(out, "")
	}
	out = strings.Trim(out, " \t,;|-–—()")
	return strings.TrimSpace(out)
}

// HasDateRange reports whether a line contains a recognized date signal
func HasDateRange(line string) bool {
	_, _, ok := ExtractDateRange(line)
	return ok
}

// normalizeDateToken title-cases month abbreviations and maps any
// present-flavored token to the literal "Present".
func normalizeDateToken(token string) string {
	token = strings.TrimSpace(token)
	if presentRe.MatchString(token) {
		return "Present"
	}
	if len(token) > 1 {
		return strings.ToUpper(token[:1]) + token[1:]
	}
	return token
}

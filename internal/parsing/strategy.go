package parsing

import (
	"fmt"
	"strings"

	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/types"
)

// Mode identifies a segmentation strategy
type Mode string

// Segmentation modes, in tie-break priority order
const (
	ModeDefault  Mode = "default"
	ModeHeadings Mode = "headings"
	ModeBullets  Mode = "bullets"
	ModeNewlines Mode = "newlines"
)

// AllModes lists every strategy in tie-break priority order
var AllModes = []Mode{ModeDefault, ModeHeadings, ModeBullets, ModeNewlines}

// Valid reports whether the mode names a known strategy
func (m Mode) Valid() bool {
	switch m {
	case ModeDefault, ModeHeadings, ModeBullets, ModeNewlines:
		return true
	default:
		return false
	}
}

// ParseMode converts a string into a Mode, defaulting empty input to ModeDefault
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeDefault, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &UnknownModeError{Mode: s}
	}
	return m, nil
}

// UnknownModeError indicates a segmentation mode name that isn't registered
type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown segmentation mode %q (valid: default, headings, bullets, newlines)", e.Mode)
}

// Segment is one strategy-proposed grouping: header lines describing a
// company/role boundary, and the candidate item lines beneath it.
type Segment struct {
	Header []types.SourceLine
	Items  []types.SourceLine
}

// strategy partitions normalized lines into segments. Strategies differ only
// in their primary delimiter signal; mapping segments into entities is shared.
type strategy interface {
	Mode() Mode
	Segment(lines []types.SourceLine) []Segment
}

// strategyFor returns the strategy registered for a mode
func strategyFor(mode Mode) strategy {
	switch mode {
	case ModeHeadings:
		return headingsStrategy{}
	case ModeBullets:
		return bulletsStrategy{}
	case ModeNewlines:
		return newlinesStrategy{}
	default:
		return defaultStrategy{}
	}
}

// defaultStrategy combines heading detection with bullet-glyph detection and
// falls back to blank-line grouping when the text has no bullets at all.
type defaultStrategy struct{}

func (defaultStrategy) Mode() Mode { return ModeDefault }

func (defaultStrategy) Segment(lines []types.SourceLine) []Segment {
	if countBulletLines(lines) == 0 {
		return blankLineSegments(lines)
	}

	var segs []Segment
	var cur Segment
	flush := func() {
		if len(cur.Header) > 0 || len(cur.Items) > 0 {
			segs = append(segs, cur)
		}
		cur = Segment{}
	}

	for _, line := range lines {
		switch {
		case strings.TrimSpace(line.Text) == "":
			if len(cur.Items) > 0 {
				flush()
			}
		case ingestion.IsBulletLine(line.Text):
			cur.Items = append(cur.Items, line)
		default:
			// A header after items opens the next segment
			if len(cur.Items) > 0 {
				flush()
			}
			cur.Header = append(cur.Header, line)
		}
	}
	flush()
	return segs
}

// headingsStrategy relies on typographic cues only: ALL CAPS lines, section
// headings, and short company/role-shaped lines act as delimiters and
// everything between them is an item candidate.
type headingsStrategy struct{}

func (headingsStrategy) Mode() Mode { return ModeHeadings }

func (headingsStrategy) Segment(lines []types.SourceLine) []Segment {
	var segs []Segment
	var cur Segment
	flush := func() {
		if len(cur.Header) > 0 || len(cur.Items) > 0 {
			segs = append(segs, cur)
		}
		cur = Segment{}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if isTypographicHeader(text) {
			if len(cur.Items) > 0 {
				flush()
			}
			cur.Header = append(cur.Header, line)
			continue
		}
		cur.Items = append(cur.Items, line)
	}
	flush()
	return segs
}

// isTypographicHeader is the headings strategy's delimiter test
func isTypographicHeader(text string) bool {
	if IsAllCapsLine(text) || IsSectionHeader(text) {
		return true
	}
	if ingestion.IsBulletLine(text) {
		return false
	}
	return LooksLikeRoleHeader(text) || (len(text) < 40 && LooksLikeCompanyHeader(text))
}

// bulletsStrategy requires a recognized bullet glyph per item line. Lines
// without a glyph are header/context lines; segments that never accumulate a
// bulleted item are dropped so glyph-free text yields no structure at all.
type bulletsStrategy struct{}

func (bulletsStrategy) Mode() Mode { return ModeBullets }

func (bulletsStrategy) Segment(lines []types.SourceLine) []Segment {
	var segs []Segment
	var cur Segment
	flush := func() {
		if len(cur.Items) > 0 {
			segs = append(segs, cur)
		}
		cur = Segment{}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		switch {
		case text == "":
			continue
		case ingestion.IsBulletLine(text):
			cur.Items = append(cur.Items, line)
		default:
			if len(cur.Items) > 0 {
				flush()
			}
			cur.Header = append(cur.Header, line)
		}
	}
	flush()
	return segs
}

// newlinesStrategy treats each non-blank line as a candidate item, grouping
// contiguous runs under the nearest preceding line that reads as a role or
// company header.
type newlinesStrategy struct{}

func (newlinesStrategy) Mode() Mode { return ModeNewlines }

func (newlinesStrategy) Segment(lines []types.SourceLine) []Segment {
	var segs []Segment
	var cur Segment
	flush := func() {
		if len(cur.Header) > 0 || len(cur.Items) > 0 {
			segs = append(segs, cur)
		}
		cur = Segment{}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if !ingestion.IsBulletLine(text) && (LooksLikeRoleHeader(text) || LooksLikeCompanyHeader(text)) && len(cur.Items) > 0 {
			flush()
			cur.Header = append(cur.Header, line)
			continue
		}
		if !ingestion.IsBulletLine(text) && len(cur.Items) == 0 && (LooksLikeRoleHeader(text) || LooksLikeCompanyHeader(text)) && len(cur.Header) < 3 {
			cur.Header = append(cur.Header, line)
			continue
		}
		cur.Items = append(cur.Items, line)
	}
	flush()
	return segs
}

// blankLineSegments is the default strategy's fallback for bullet-free text:
// blank lines delimit blocks, leading header-shaped lines open each block.
func blankLineSegments(lines []types.SourceLine) []Segment {
	var segs []Segment
	var cur Segment
	inHeader := true
	flush := func() {
		if len(cur.Header) > 0 || len(cur.Items) > 0 {
			segs = append(segs, cur)
		}
		cur = Segment{}
		inHeader = true
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			flush()
			continue
		}
		if inHeader && (IsSectionHeader(text) || LooksLikeRoleHeader(text) || LooksLikeCompanyHeader(text)) && len(cur.Header) < 3 {
			cur.Header = append(cur.Header, line)
			continue
		}
		inHeader = false
		cur.Items = append(cur.Items, line)
	}
	flush()
	return segs
}

// countBulletLines counts lines starting with a recognized bullet glyph
func countBulletLines(lines []types.SourceLine) int {
	n := 0
	for _, line := range lines {
		if ingestion.IsBulletLine(line.Text) {
			n++
		}
	}
	return n
}

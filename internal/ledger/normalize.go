package ledger

import (
	"strings"

	"github.com/jkaplan/jobtrail/internal/types"
)

// NormalizeText produces the canonical form used for deduplication:
// lowercased, whitespace collapsed, trimmed. Two claims whose texts differ
// only in case or spacing normalize identically.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// dedupKey builds the equality key two claims must share to be considered the
// same piece of evidence. Experience claims fold in role/company/date fields;
// dependent claims fold in their parent Experience so the same skill under
// two jobs stays two claims.
func dedupKey(c *types.Claim) string {
	var b strings.Builder
	b.WriteString(string(c.Type))
	b.WriteByte('|')
	b.WriteString(c.NormalizedText)
	if c.Type == types.ClaimExperience {
		for _, part := range []string{c.Role, c.Company, c.StartDate, c.EndDate} {
			b.WriteByte('|')
			b.WriteString(NormalizeText(part))
		}
		return b.String()
	}
	b.WriteByte('|')
	if c.ExperienceID != nil {
		b.WriteString(c.ExperienceID.String())
	}
	return b.String()
}

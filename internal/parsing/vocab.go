// Package parsing partitions normalized resume lines into a structured draft
// of companies, roles, and typed items using deterministic heuristics.
package parsing

import "strings"

// skillNormalizations maps common skill and tool name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"ga":         "Google Analytics",
	"ga4":        "Google Analytics",
	"hubspot":    "HubSpot",
	"sql":        "SQL",
	"seo":        "SEO",
	"sem":        "SEM",
	"crm":        "CRM",
	"aws":        "AWS",
	"gcp":        "GCP",
}

// toolVocabulary is the curated dictionary of tools and platforms. A line (or
// a claim text) matching one of these reads as tool evidence.
var toolVocabulary = []string{
	"hubspot", "salesforce", "marketo", "mailchimp", "braze", "klaviyo",
	"google analytics", "ga4", "looker", "tableau", "power bi", "amplitude",
	"mixpanel", "segment", "snowflake", "dbt", "airtable", "zapier",
	"intercom", "zendesk", "shopify", "stripe", "wordpress", "webflow",
	"figma", "sketch", "photoshop", "illustrator", "canva",
	"jira", "confluence", "notion", "asana", "trello", "linear", "slack",
	"github", "gitlab", "bitbucket", "jenkins", "terraform", "docker",
	"kubernetes", "aws", "gcp", "azure", "datadog", "grafana", "excel",
	"outreach", "gong", "greenhouse", "lever", "workday",
}

// skillVocabulary is the curated dictionary of capabilities. A short line
// matching one of these reads as a skill tag rather than an accomplishment.
var skillVocabulary = []string{
	"seo", "sem", "copywriting", "email marketing", "lifecycle marketing",
	"content strategy", "paid social", "paid search", "demand generation",
	"a/b testing", "experimentation", "data analysis", "analytics",
	"forecasting", "budgeting", "negotiation", "crm", "account management",
	"project management", "product management", "agile", "scrum",
	"leadership", "mentoring", "public speaking", "recruiting",
	"sql", "python", "javascript", "typescript", "go", "java", "r",
	"machine learning", "statistics", "ux research", "user research",
	"visual design", "brand design",
}

// actionVerbs open quantified accomplishment lines. Matching is on the first
// token of the line, lowercased.
var actionVerbs = map[string]bool{
	"grew": true, "led": true, "built": true, "launched": true, "owned": true,
	"shipped": true, "drove": true, "increased": true, "reduced": true,
	"managed": true, "created": true, "designed": true, "improved": true,
	"delivered": true, "scaled": true, "implemented": true, "developed": true,
	"negotiated": true, "closed": true, "generated": true, "cut": true,
	"saved": true, "boosted": true, "migrated": true, "automated": true,
	"mentored": true, "hired": true, "founded": true, "optimized": true,
	"executed": true, "won": true, "raised": true, "achieved": true,
	"ran": true, "produced": true, "sold": true, "expanded": true,
	"streamlined": true, "doubled": true, "tripled": true, "established": true,
}

// NormalizeSkillName normalizes a skill or tool name to its canonical form
func NormalizeSkillName(name string) string {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case input is assumed intentional (brand spellings like iOS)
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	// Single all-lower or all-upper words get simple title casing
	if !strings.Contains(normalized, " ") && len(normalized) > 1 {
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}
	return normalized
}

// matchVocabulary returns the first vocabulary entry found in the text, or ""
// when nothing matches. Single-word entries must match a whole token so short
// names like "go" or "r" don't fire inside unrelated words; multi-word
// entries match as substrings.
func matchVocabulary(text string, vocab []string) string {
	lower := strings.ToLower(text)
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(lower) {
		tokens[strings.Trim(tok, ".,;:()[]\"'")] = true
	}
	for _, entry := range vocab {
		if strings.Contains(entry, " ") {
			if strings.Contains(lower, entry) {
				return entry
			}
			continue
		}
		if tokens[entry] {
			return entry
		}
	}
	return ""
}

// MatchesToolVocabulary reports whether text mentions a known tool/platform
func MatchesToolVocabulary(text string) bool {
	return matchVocabulary(text, toolVocabulary) != ""
}

// MatchesSkillVocabulary reports whether text mentions a known skill
func MatchesSkillVocabulary(text string) bool {
	return matchVocabulary(text, skillVocabulary) != ""
}

// StartsWithActionVerb reports whether the first word of text is a known
// action verb, the leading signal of an accomplishment statement.
func StartsWithActionVerb(text string) bool {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return false
	}
	return actionVerbs[strings.Trim(fields[0], ".,;:")]
}

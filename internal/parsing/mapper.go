package parsing

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/types"
)

// metricRe finds quantified accomplishment signals: currency, percentages,
// multipliers, and large counts.
var metricRe = regexp.MustCompile(`(?i)\$\s?\d[\d,.]*\s?[kmb]?\b|\d[\d,.]*\s?%|\b\d+(?:\.\d+)?x\b|\b\d{1,3}(?:,\d{3})+\b|\b\d{3,}\b`)

// bareYearRe identifies tokens that are calendar years, not metrics
var bareYearRe = regexp.MustCompile(`^(?:19|20)\d{2}$`)

// Confidence thresholds. Confidence is a function of how many independent
// signals agreed; entities at or above acceptThreshold start accepted,
// everything else starts needs_attention.
const (
	itemBaseConfidence   = 0.30
	itemSignalWeight     = 0.15
	headerBaseConfidence = 0.40
	headerSignalWeight   = 0.20
	maxConfidence        = 0.95
	acceptThreshold      = 0.60
	minItemTextLen       = 3
)

// FindMetric returns the first quantified-metric token in text, skipping
// tokens that read as calendar years.
func FindMetric(text string) string {
	for _, m := range metricRe.FindAllString(text, -1) {
		if !bareYearRe.MatchString(strings.TrimSpace(m)) {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// ClassifyItem classifies one candidate line into an item type using the
// lightweight rules: action verb + metric reads as an outcome, a short
// dictionary hit reads as a tool or skill tag, anything else bullet-like is a
// highlight. hasGlyph contributes a confidence signal only.
func ClassifyItem(text string, hasGlyph bool) types.ImportDraftItem {
	metric := FindMetric(text)
	verb := StartsWithActionVerb(text)
	toolHit := MatchesToolVocabulary(text)
	skillHit := MatchesSkillVocabulary(text)
	short := len(strings.Fields(text)) <= 6

	itemType := types.ItemHighlight
	switch {
	case verb && metric != "":
		itemType = types.ItemOutcome
	case !verb && short && toolHit:
		itemType = types.ItemTool
	case !verb && short && skillHit:
		itemType = types.ItemSkill
	}

	signals := 0
	if hasGlyph {
		signals++
	}
	if verb {
		signals++
	}
	if metric != "" {
		signals++
	}
	if toolHit || skillHit {
		signals++
	}

	confidence := itemBaseConfidence + itemSignalWeight*float64(signals)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	item := types.ImportDraftItem{
		ID:         uuid.New(),
		Type:       itemType,
		Text:       text,
		Confidence: confidence,
		Status:     statusForConfidence(confidence),
	}
	if itemType == types.ItemOutcome {
		item.Metric = metric
	}
	return item
}

// statusForConfidence derives the initial review status. It runs only at
// creation; user-set statuses are never recomputed.
func statusForConfidence(confidence float64) types.ReviewStatus {
	if confidence >= acceptThreshold {
		return types.StatusAccepted
	}
	return types.StatusNeedsAttention
}

// headerInfo is what analyzeHeader recovers from one segment's header lines
type headerInfo struct {
	companyName  string
	companyRefs  []int
	companyConf  float64
	roleTitle    string
	roleRefs     []int
	startDate    string
	endDate      string
	roleSignals  int
	sectionReset bool
}

// mapper holds the shared entity-mapping state for one parse attempt
type mapper struct {
	collector *diagnostics.Collector
	stats     diagnostics.MappingStats

	companies  []*types.ImportDraftCompany
	byName     map[string]*types.ImportDraftCompany
	current    *types.ImportDraftCompany
	unassigned *types.ImportDraftCompany
}

// mapSegments converts strategy segments into an import draft. It never
// fails: items without a detectable company or role land under the Unassigned
// sentinel and the shortfall is recorded as reason codes.
func mapSegments(segs []Segment, hasInput bool, collector *diagnostics.Collector) types.ImportDraft {
	m := &mapper{
		collector: collector,
		byName:    make(map[string]*types.ImportDraftCompany),
	}

	for _, seg := range segs {
		m.mapSegment(seg)
	}

	// Glyph-free bullets-mode parses (and similar) yield no segments at all;
	// the sentinel still anchors whatever the user adds manually.
	if len(m.companies) == 0 && hasInput {
		m.ensureUnassigned()
	}

	draft := types.ImportDraft{}
	for _, c := range m.companies {
		draft.Companies = append(draft.Companies, *c)
	}

	m.stats.Companies = draft.CountRealCompanies()
	collector.FinishMapping(m.stats)
	return draft
}

func (m *mapper) mapSegment(seg Segment) {
	info := m.analyzeHeader(seg.Header)
	if info.sectionReset {
		m.current = nil
	}

	var role *types.ImportDraftRole
	if info.companyName != "" {
		m.current = m.findOrCreateCompany(info)
	}
	if info.roleTitle != "" || info.startDate != "" {
		role = m.createRole(info, len(seg.Items) > 0)
	}

	for _, line := range seg.Items {
		m.stats.ItemCandidates++
		text := ingestion.StripBullet(line.Text)
		if len(text) < minItemTextLen || IsSectionHeader(text) {
			continue
		}
		item := ClassifyItem(text, ingestion.IsBulletLine(line.Text))
		item.SourceRefs = []int{line.Index}

		target := role
		if target == nil {
			target = m.currentOrUnassignedRole()
		}
		appendItem(target, item)
		m.stats.Items++
	}
}

// analyzeHeader classifies each header line as a role line, a company line,
// or a section heading, extracting dates from role lines.
func (m *mapper) analyzeHeader(header []types.SourceLine) headerInfo {
	var info headerInfo
	for _, line := range header {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if IsSectionHeader(text) {
			info.sectionReset = true
			continue
		}
		if start, end, ok := ExtractDateRange(text); ok && info.roleTitle == "" {
			m.stats.TimeframeCandidates++
			m.stats.RoleCandidates++
			info.startDate, info.endDate = start, end
			info.roleTitle = StripDateRange(text)
			info.roleRefs = append(info.roleRefs, line.Index)
			info.roleSignals += 2 // header pattern + date pattern
			continue
		}
		if LooksLikeRoleHeader(text) && info.roleTitle == "" {
			m.stats.RoleCandidates++
			info.roleTitle = text
			info.roleRefs = append(info.roleRefs, line.Index)
			info.roleSignals++
			continue
		}
		if LooksLikeCompanyHeader(text) && info.companyName == "" {
			m.stats.CompanyCandidates++
			info.companyName = text
			info.companyRefs = append(info.companyRefs, line.Index)
			signals := 1
			if hasCompanySuffix(text) {
				signals++
			}
			info.companyConf = headerBaseConfidence + headerSignalWeight*float64(signals)
		}
	}
	return info
}

// findOrCreateCompany collapses duplicate company names case-insensitively,
// preserving first-seen order.
func (m *mapper) findOrCreateCompany(info headerInfo) *types.ImportDraftCompany {
	key := strings.ToLower(strings.TrimSpace(info.companyName))
	if existing, ok := m.byName[key]; ok {
		if info.companyConf > existing.Confidence {
			existing.Confidence = info.companyConf
			existing.Status = statusForConfidence(info.companyConf)
		}
		return existing
	}

	conf := info.companyConf
	if conf > maxConfidence {
		conf = maxConfidence
	}
	c := &types.ImportDraftCompany{
		ID:         uuid.New(),
		Name:       info.companyName,
		Confidence: conf,
		Status:     statusForConfidence(conf),
		SourceRefs: info.companyRefs,
	}
	m.companies = append(m.companies, c)
	m.byName[key] = c
	return c
}

// createRole adds a role to the current company (or the sentinel when no
// company context exists) and counts it when its title was actually detected.
func (m *mapper) createRole(info headerInfo, hasItems bool) *types.ImportDraftRole {
	title := info.roleTitle
	if title == "" {
		title = types.UnassignedCompanyName
	}
	signals := info.roleSignals
	if hasItems {
		signals++
	}
	conf := headerBaseConfidence + headerSignalWeight*float64(signals)
	if conf > maxConfidence {
		conf = maxConfidence
	}

	role := types.ImportDraftRole{
		ID:         uuid.New(),
		Title:      title,
		StartDate:  info.startDate,
		EndDate:    info.endDate,
		Confidence: conf,
		Status:     statusForConfidence(conf),
		SourceRefs: info.roleRefs,
	}

	company := m.current
	if company == nil {
		company = m.ensureUnassigned()
	}
	company.Roles = append(company.Roles, role)
	if info.roleTitle != "" {
		m.stats.Roles++
	}
	return &company.Roles[len(company.Roles)-1]
}

// currentOrUnassignedRole returns the newest role of the current company, or
// the sentinel role when there is no usable context. A company with no
// detected role gets a sentinel-titled role so its items stay under the
// right employer.
func (m *mapper) currentOrUnassignedRole() *types.ImportDraftRole {
	if m.current != nil {
		if len(m.current.Roles) == 0 {
			m.current.Roles = append(m.current.Roles, types.ImportDraftRole{
				ID:     uuid.New(),
				Title:  types.UnassignedCompanyName,
				Status: types.StatusNeedsAttention,
			})
		}
		return &m.current.Roles[len(m.current.Roles)-1]
	}
	u := m.ensureUnassigned()
	if len(u.Roles) == 0 {
		u.Roles = append(u.Roles, types.ImportDraftRole{
			ID:     uuid.New(),
			Title:  types.UnassignedCompanyName,
			Status: types.StatusNeedsAttention,
		})
	}
	return &u.Roles[len(u.Roles)-1]
}

// ensureUnassigned lazily creates the sentinel company. It is always
// needs_attention and never scored as a real employer.
func (m *mapper) ensureUnassigned() *types.ImportDraftCompany {
	if m.unassigned != nil {
		return m.unassigned
	}
	m.unassigned = &types.ImportDraftCompany{
		ID:     uuid.New(),
		Name:   types.UnassignedCompanyName,
		Status: types.StatusNeedsAttention,
	}
	m.companies = append(m.companies, m.unassigned)
	m.byName[strings.ToLower(types.UnassignedCompanyName)] = m.unassigned
	return m.unassigned
}

// appendItem routes an item into the role collection matching its type.
// The switch is exhaustive over ItemType.
func appendItem(role *types.ImportDraftRole, item types.ImportDraftItem) {
	switch item.Type {
	case types.ItemOutcome:
		role.Outcomes = append(role.Outcomes, item)
	case types.ItemTool:
		role.Tools = append(role.Tools, item)
	case types.ItemSkill:
		role.Skills = append(role.Skills, item)
	case types.ItemHighlight:
		role.Highlights = append(role.Highlights, item)
	}
}

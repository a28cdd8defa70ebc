package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_AddReason_Deduplicates(t *testing.T) {
	c := NewCollector("default", ExtractionStats{ExtractedChars: 100})

	c.AddReason(ReasonRoleDetectFail)
	c.AddReason(ReasonRoleDetectFail)
	c.AddReason(ReasonCompanyDetectFail)

	d := c.Diagnostics()
	assert.Equal(t, []ReasonCode{ReasonRoleDetectFail, ReasonCompanyDetectFail}, d.ReasonCodes)
}

func TestCollector_BulletDetectFail_OnlyWhenTextNonEmpty(t *testing.T) {
	c := NewCollector("bullets", ExtractionStats{ExtractedChars: 50})
	c.FinishSegmentation(SegmentationStats{LineCount: 5, BulletCandidateCount: 0})
	d := c.Diagnostics()
	assert.True(t, d.HasReason(ReasonBulletDetectFail))

	empty := NewCollector("bullets", ExtractionStats{ExtractedChars: 0})
	empty.FinishSegmentation(SegmentationStats{})
	d = empty.Diagnostics()
	assert.False(t, d.HasReason(ReasonBulletDetectFail))
}

func TestCollector_LayoutCollapse(t *testing.T) {
	// Two pages collapsing to three lines looks like a multi-column artifact
	c := NewCollector("default", ExtractionStats{PageCount: 2, ExtractedChars: 4000})
	c.FinishSegmentation(SegmentationStats{LineCount: 3, BulletCandidateCount: 1})
	d := c.Diagnostics()
	assert.True(t, d.HasReason(ReasonLayoutCollapse))

	// A healthy line count does not
	ok := NewCollector("default", ExtractionStats{PageCount: 2, ExtractedChars: 4000})
	ok.FinishSegmentation(SegmentationStats{LineCount: 80, BulletCandidateCount: 20})
	d = ok.Diagnostics()
	assert.False(t, d.HasReason(ReasonLayoutCollapse))
}

func TestCollector_MappingReasons(t *testing.T) {
	c := NewCollector("default", ExtractionStats{ExtractedChars: 500})
	c.FinishMapping(MappingStats{ItemCandidates: 8, Items: 0})

	d := c.Diagnostics()
	assert.True(t, d.HasReason(ReasonFilteredAll))
	assert.True(t, d.HasReason(ReasonCompanyDetectFail))
	assert.True(t, d.HasReason(ReasonRoleDetectFail))
	assert.True(t, d.HasCollapseReason())
}

func TestCollector_MappingReasons_SkippedOnEmptyText(t *testing.T) {
	c := NewCollector("default", ExtractionStats{ExtractedChars: 0})
	c.FinishMapping(MappingStats{})
	assert.Empty(t, c.Diagnostics().ReasonCodes)
}

func TestCollector_GlyphHistogram_TopFiveSorted(t *testing.T) {
	c := NewCollector("default", ExtractionStats{ExtractedChars: 100})
	for i := 0; i < 7; i++ {
		c.CountGlyph("-")
	}
	for i := 0; i < 3; i++ {
		c.CountGlyph("•")
	}
	c.CountGlyph("*")
	c.FinishSegmentation(SegmentationStats{BulletCandidateCount: 11, LineCount: 20})

	hist := c.Diagnostics().Segmentation.GlyphHistogram
	require.Len(t, hist, 3)
	assert.Equal(t, GlyphCount{Glyph: "-", Count: 7}, hist[0])
	assert.Equal(t, GlyphCount{Glyph: "•", Count: 3}, hist[1])
}

func TestCollector_LinePreview_NumberedAndCapped(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line"
	}
	c := NewCollector("default", ExtractionStats{})
	c.SetLinePreview(lines)

	preview := c.Diagnostics().LinePreview
	require.Len(t, preview, previewLineLimit)
	assert.Equal(t, "  1| line", preview[0])
}

func TestIsCollapseReason(t *testing.T) {
	assert.True(t, IsCollapseReason(ReasonFilteredAll))
	assert.True(t, IsCollapseReason(ReasonLayoutCollapse))
	assert.True(t, IsCollapseReason(ReasonRoleDetectFail))
	assert.True(t, IsCollapseReason(ReasonCompanyDetectFail))
	assert.False(t, IsCollapseReason(ReasonTextEmpty))
	assert.False(t, IsCollapseReason(ReasonBulletDetectFail))
}

func TestGuidance_CoversAllCodes(t *testing.T) {
	codes := []ReasonCode{
		ReasonTextEmpty, ReasonBulletDetectFail, ReasonLayoutCollapse,
		ReasonFilteredAll, ReasonRoleDetectFail, ReasonCompanyDetectFail,
	}
	for _, code := range codes {
		msg := Guidance(code)
		assert.NotEmpty(t, msg)
		assert.NotContains(t, msg, string(code), "guidance must not surface raw codes")
	}
}

func TestDebugReport_ToJSON_Stable(t *testing.T) {
	report := NewDebugReport(
		BuildInfo{Version: "1.2.3", Commit: "abc123"},
		SourceInfo{Kind: "file", FileName: "resume.txt", FileSize: 1024, Hash: "deadbeef"},
		ParseDiagnostics{Mode: "default", ReasonCodes: []ReasonCode{ReasonBulletDetectFail}},
		true,
		ReportTotals{Companies: 1, Roles: 2, Items: 10, StructuredItems: 8},
	)

	data, err := report.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1.2.3", decoded["build"].(map[string]any)["version"])
	assert.Equal(t, true, decoded["low_quality"])
	assert.NotEmpty(t, decoded["generated_at"])
}

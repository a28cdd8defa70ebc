package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"debug_report.schema.json",
		"claim_input.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			schemaPath := filepath.Join(".", schemaFile)
			data, err := os.ReadFile(schemaPath)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj))
			assert.Contains(t, schemaObj, "$schema")
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestDebugReportSchema_AcceptsGeneratedReport(t *testing.T) {
	report := diagnostics.NewDebugReport(
		diagnostics.BuildInfo{Version: "test"},
		diagnostics.SourceInfo{Kind: "plain_text", Hash: "abc123"},
		diagnostics.ParseDiagnostics{
			Mode: "default",
			Segmentation: diagnostics.SegmentationStats{
				LineCount:      10,
				BlankLineCount: 2,
			},
			Mapping: diagnostics.MappingStats{Companies: 1, Roles: 1, Items: 3},
			ReasonCodes: []diagnostics.ReasonCode{
				diagnostics.ReasonBulletDetectFail,
			},
		},
		false,
		diagnostics.ReportTotals{Companies: 1, Roles: 1, Items: 3, StructuredItems: 2},
	)

	reportJSON, err := report.ToJSON()
	require.NoError(t, err)

	schemaContent, err := os.ReadFile("debug_report.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaContent), string(reportJSON))
	assert.NoError(t, err)
}

func TestDebugReportSchema_RejectsUnknownReasonCode(t *testing.T) {
	schemaContent, err := os.ReadFile("debug_report.schema.json")
	require.NoError(t, err)

	doc := `{
		"generated_at": "2026-01-01T00:00:00Z",
		"build": {"version": "test"},
		"source": {"kind": "plain_text"},
		"low_quality": false,
		"diagnostics": {
			"mode": "default",
			"extraction": {},
			"segmentation": {},
			"mapping": {},
			"reason_codes": ["SOMETHING_ELSE"]
		},
		"totals": {"companies": 0, "roles": 0, "items": 0, "structured_items": 0}
	}`

	err = schemas.ValidateJSONString(string(schemaContent), doc)
	require.Error(t, err)
	_, ok := err.(*schemas.ValidationError)
	assert.True(t, ok, "error should be ValidationError type")
}

func TestClaimInputSchema(t *testing.T) {
	schemaContent, err := os.ReadFile("claim_input.schema.json")
	require.NoError(t, err)
	schema := string(schemaContent)

	valid := `{
		"type": "Outcome",
		"text": "Grew signups 40%",
		"confidence": 0.8,
		"metric": "40%",
		"is_numeric": true
	}`
	assert.NoError(t, schemas.ValidateJSONString(schema, valid))

	withParent := `{
		"type": "Tool",
		"text": "HubSpot",
		"confidence": 0.7,
		"experience_id": "7e0e7a84-22ac-4c8e-8e6c-1a2b3c4d5e6f"
	}`
	assert.NoError(t, schemas.ValidateJSONString(schema, withParent))

	cases := []struct {
		name string
		doc  string
	}{
		{"missing text", `{"confidence": 0.5}`},
		{"empty text", `{"text": ""}`},
		{"confidence above one", `{"text": "x", "confidence": 1.2}`},
		{"unknown type", `{"text": "x", "type": "Wish"}`},
		{"malformed parent id", `{"text": "x", "experience_id": "not-a-uuid"}`},
		{"unknown field", `{"text": "x", "sentiment": "great"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(schema, tc.doc)
			require.Error(t, err)
			_, ok := err.(*schemas.ValidationError)
			assert.True(t, ok, "error should be ValidationError type")
		})
	}
}

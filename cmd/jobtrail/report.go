package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/schemas"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Emit the debug report for a stored import session",
	Long:  "Emit the stable diagnostics document for one import session, suitable for attaching to a bug report. Output goes to stdout unless --out is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var reportOutputFile string

func init() {
	reportCmd.Flags().StringVarP(&reportOutputFile, "out", "o", "", "Path to output JSON file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	sessionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid session ID: %w", err)
	}

	ctx := context.Background()
	database, _, err := requireDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	sess, err := database.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("import session not found: %s", sessionID)
	}

	source := diagnostics.SourceInfo{Kind: "plain_text"}
	if sess.Source != nil {
		source = sess.Source.SourceInfo()
	}
	report := diagnostics.NewDebugReport(
		diagnostics.BuildInfo{Version: version},
		source,
		sess.Diagnostics,
		sess.LowQuality,
		draftTotals(&sess.Draft),
	)

	reportJSON, err := report.ToJSON()
	if err != nil {
		return err
	}

	if reportOutputFile == "" {
		fmt.Println(string(reportJSON))
		return nil
	}

	if err := os.WriteFile(reportOutputFile, reportJSON, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	schemaPath := schemas.ResolveSchemaPath("schemas/debug_report.schema.json")
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, reportOutputFile); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("debug report does not validate against schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate debug report against schema: %v\n", err)
		}
	}

	fmt.Printf("Output: %s\n", reportOutputFile)
	return nil
}

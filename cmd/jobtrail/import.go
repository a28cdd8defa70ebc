package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jkaplan/jobtrail/internal/config"
	"github.com/jkaplan/jobtrail/internal/db"
	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/ledger"
	"github.com/jkaplan/jobtrail/internal/observability"
	"github.com/jkaplan/jobtrail/internal/parsing"
	"github.com/jkaplan/jobtrail/internal/schemas"
	"github.com/jkaplan/jobtrail/internal/types"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Parse resume files into reviewable import drafts",
	Long:  "Parse one or more resume files (plain text or HTML) into import drafts. Drafts become sessions you can review and commit to the claim ledger; with --save the draft is committed immediately.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

var (
	importMode      string
	importSave      bool
	importReportDir string
	importParallel  int
)

func init() {
	importCmd.Flags().StringVar(&importMode, "mode", "", "Force one segmentation strategy (default, headings, bullets, newlines); empty tries all and keeps the best")
	importCmd.Flags().BoolVar(&importSave, "save", false, "Commit each draft to the claim ledger without review")
	importCmd.Flags().StringVar(&importReportDir, "report-dir", "", "Write a debug report JSON per file into this directory")
	importCmd.Flags().IntVar(&importParallel, "parallel", 4, "Maximum files parsed concurrently")

	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	var forced parsing.Mode
	if importMode != "" {
		forced, err = parsing.ParseMode(importMode)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()

	// A database is optional for parse-only runs. Saving claims needs one;
	// without it the ledger would evaporate when the command exits.
	var database *db.DB
	var led *ledger.Ledger
	if cfg.DatabaseURL != "" {
		database, led, err = openStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
	} else if importSave {
		return fmt.Errorf("DATABASE_URL is required with --save")
	}

	// Parsing is CPU-bound and per-file independent; output stays ordered
	// per file behind one mutex so boxes never interleave.
	var outMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(importParallel)

	for _, path := range args {
		g.Go(func() error {
			return importFile(ctx, path, cfg, forced, database, led, &outMu)
		})
	}

	return g.Wait()
}

// openStores connects to the database and opens the claim ledger over it
func openStores(ctx context.Context, cfg config.Config) (*db.DB, *ledger.Ledger, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	led, err := ledger.New(ctx, db.NewClaimStore(database), ledger.Config{
		AutoApproveConfidence: cfg.AutoApproveConfidence,
	})
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to open claim ledger: %w", err)
	}
	return database, led, nil
}

// importFile runs the full pipeline for one file: read, extract, parse,
// session, optional save, optional debug report.
func importFile(ctx context.Context, path string, cfg config.Config, forced parsing.Mode, database *db.DB, led *ledger.Ledger, outMu *sync.Mutex) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(raw)
	kind := "plain_text"
	opts := parsing.Options{Tuning: cfg.Tuning()}

	if isHTMLFile(path) {
		extracted, stats, err := ingestion.ExtractHTML(strings.NewReader(text))
		if err != nil {
			return fmt.Errorf("failed to extract HTML from %s: %w", path, err)
		}
		text = extracted
		kind = "html"
		opts.Extraction = &stats
	}

	var result parsing.Result
	if forced != "" {
		result = parsing.Parse(text, forced, opts)
	} else {
		result = parsing.ParseBest(text, opts)
	}

	sess := draft.NewSession(result.Draft, result.Diagnostics, result.LowQuality, result.Lines)
	sess.Source = ingestion.NewSourceMetadata(kind, filepath.Base(path), int64(len(raw)), text)

	if database != nil {
		if err := database.SaveSession(ctx, sess); err != nil {
			return fmt.Errorf("failed to store session for %s: %w", path, err)
		}
	}

	var claims []types.Claim
	if importSave {
		claims, err = led.SaveDraft(ctx, &sess.Draft)
		if err != nil {
			return fmt.Errorf("failed to save claims for %s: %w", path, err)
		}
		sess.MarkSaved()
		if err := database.SaveSession(ctx, sess); err != nil {
			return fmt.Errorf("failed to store session for %s: %w", path, err)
		}
	}

	if importReportDir != "" {
		if err := writeDebugReport(sess, path); err != nil {
			return err
		}
	}

	outMu.Lock()
	defer outMu.Unlock()
	printImportResult(path, sess, claims, cfg.Verbose)
	return nil
}

// isHTMLFile decides input kind by extension
func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// printImportResult writes the per-file outcome to stdout
func printImportResult(path string, sess *draft.Session, claims []types.Claim, verbose bool) {
	printer := observability.NewPrinter(os.Stdout)

	totals := draftTotals(&sess.Draft)
	fmt.Printf("%s: %d companies, %d roles, %d items (session %s)\n",
		path, totals.Companies, totals.Roles, totals.Items, sess.ID)

	if verbose {
		printer.PrintDiagnostics(&sess.Diagnostics)
		printer.PrintCandidates(sess.Diagnostics.Candidates, sess.Diagnostics.Mode)
		printer.PrintDraft(&sess.Draft)
		printer.PrintPrefill(&sess.Prefill)
	}
	if sess.LowQuality {
		printer.PrintLowQualityWarning(&sess.Diagnostics)
	}
	if sess.State == draft.SessionSaved {
		fmt.Printf("Saved %d claims to the ledger\n", len(claims))
		if verbose {
			printer.PrintClaims(claims)
		}
	}
}

// writeDebugReport emits the session's debug report into the report
// directory and validates it against the bundled schema.
func writeDebugReport(sess *draft.Session, inputPath string) error {
	if err := os.MkdirAll(importReportDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
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

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(importReportDir, base+".report.json")
	if err := os.WriteFile(outputPath, reportJSON, 0644); err != nil {
		return fmt.Errorf("failed to write debug report: %w", err)
	}

	schemaPath := schemas.ResolveSchemaPath("schemas/debug_report.schema.json")
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, outputPath); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("debug report does not validate against schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate debug report against schema: %v\n", err)
		}
	}

	return nil
}

// draftTotals summarizes a draft's output volume for reports and summaries
func draftTotals(d *types.ImportDraft) diagnostics.ReportTotals {
	totals := diagnostics.ReportTotals{
		Companies:       len(d.Companies),
		StructuredItems: d.CountStructuredItems(),
	}
	for i := range d.Companies {
		totals.Roles += len(d.Companies[i].Roles)
		for j := range d.Companies[i].Roles {
			role := &d.Companies[i].Roles[j]
			totals.Items += len(role.Highlights) + len(role.Outcomes) + len(role.Tools) + len(role.Skills)
		}
	}
	return totals
}

// version is stamped at link time via -ldflags
var version = "dev"

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jkaplan/jobtrail/internal/config"
	"github.com/jkaplan/jobtrail/internal/db"
	"github.com/jkaplan/jobtrail/internal/ledger"
	"github.com/jkaplan/jobtrail/internal/observability"
	"github.com/jkaplan/jobtrail/internal/types"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Inspect and edit the claim ledger",
}

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger claims",
	RunE:  runClaimsList,
}

var claimsAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a claim; its type is inferred from the text unless --type is given",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsAdd,
}

var claimsMergeCmd = &cobra.Command{
	Use:   "merge <target-id> <source-id>",
	Short: "Merge one Experience claim into another",
	Args:  cobra.ExactArgs(2),
	RunE:  runClaimsMerge,
}

var claimsApproveCmd = &cobra.Command{
	Use:   "approve [id]...",
	Short: "Approve claims; with no IDs every Review Needed claim is approved",
	RunE:  runClaimsApprove,
}

var claimsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a claim and, for an Experience, its dependents",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsDelete,
}

var (
	claimsListType   string
	claimsListJSON   bool
	claimsAddType    string
	claimsAddConf    float64
	claimsAddParent  string
	claimsAddCompany string
	claimsAddRole    string
)

func init() {
	claimsListCmd.Flags().StringVar(&claimsListType, "type", "", "Filter by claim type (Experience, Outcome, Tool, Skill)")
	claimsListCmd.Flags().BoolVar(&claimsListJSON, "json", false, "Emit raw JSON instead of formatted output")

	claimsAddCmd.Flags().StringVar(&claimsAddType, "type", "", "Claim type; empty infers from the text")
	claimsAddCmd.Flags().Float64Var(&claimsAddConf, "confidence", 1.0, "Confidence of the claim (0.0-1.0)")
	claimsAddCmd.Flags().StringVar(&claimsAddParent, "experience", "", "Parent Experience claim ID for a dependent claim")
	claimsAddCmd.Flags().StringVar(&claimsAddCompany, "company", "", "Company, for Experience claims")
	claimsAddCmd.Flags().StringVar(&claimsAddRole, "role", "", "Role title, for Experience claims")

	claimsCmd.AddCommand(claimsListCmd)
	claimsCmd.AddCommand(claimsAddCmd)
	claimsCmd.AddCommand(claimsMergeCmd)
	claimsCmd.AddCommand(claimsApproveCmd)
	claimsCmd.AddCommand(claimsDeleteCmd)
	rootCmd.AddCommand(claimsCmd)
}

// requireDatabase connects to the configured database, failing when none is
// configured. Commands that touch persistent state go through here.
func requireDatabase(ctx context.Context) (*db.DB, config.Config, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, cfg, err
	}
	if cfg.DatabaseURL == "" {
		return nil, cfg, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, cfg, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return database, cfg, nil
}

// claimsStores opens the database-backed ledger for a claims subcommand
func claimsStores(ctx context.Context) (*db.DB, *ledger.Ledger, config.Config, error) {
	database, cfg, err := requireDatabase(ctx)
	if err != nil {
		return nil, nil, cfg, err
	}

	led, err := ledger.New(ctx, db.NewClaimStore(database), ledger.Config{
		AutoApproveConfidence: cfg.AutoApproveConfidence,
	})
	if err != nil {
		database.Close()
		return nil, nil, cfg, fmt.Errorf("failed to open claim ledger: %w", err)
	}
	return database, led, cfg, nil
}

func runClaimsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, led, _, err := claimsStores(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var claims []types.Claim
	if claimsListType != "" {
		claimType := types.ClaimType(claimsListType)
		if !claimType.Valid() {
			return fmt.Errorf("unknown claim type %q", claimsListType)
		}
		claims, err = led.ListByType(ctx, claimType)
	} else {
		claims, err = led.List(ctx)
	}
	if err != nil {
		return err
	}

	if claimsListJSON {
		jsonBytes, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal claims: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintClaims(claims)
	return nil
}

func runClaimsAdd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	database, led, _, err := claimsStores(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	in := types.ClaimInput{
		Type:       types.ClaimType(claimsAddType),
		Text:       args[0],
		Confidence: claimsAddConf,
		Company:    claimsAddCompany,
		Role:       claimsAddRole,
	}
	if claimsAddParent != "" {
		parentID, err := uuid.Parse(claimsAddParent)
		if err != nil {
			return fmt.Errorf("invalid --experience ID: %w", err)
		}
		in.ExperienceID = &parentID
	}

	claim, err := led.Add(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s claim %s (%s)\n", claim.Type, claim.ID, claim.Verification)
	return nil
}

func runClaimsMerge(_ *cobra.Command, args []string) error {
	targetID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid target ID: %w", err)
	}
	sourceID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid source ID: %w", err)
	}

	ctx := context.Background()
	database, led, _, err := claimsStores(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := led.Merge(ctx, targetID, sourceID); err != nil {
		return err
	}

	fmt.Printf("Merged %s into %s\n", sourceID, targetID)
	return nil
}

func runClaimsApprove(_ *cobra.Command, args []string) error {
	var ids []uuid.UUID
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid claim ID %q: %w", arg, err)
		}
		ids = append(ids, id)
	}

	ctx := context.Background()
	database, led, _, err := claimsStores(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	approved, err := led.Approve(ctx, ids)
	if err != nil {
		return err
	}

	fmt.Printf("Approved %d claims\n", approved)
	return nil
}

func runClaimsDelete(_ *cobra.Command, args []string) error {
	claimID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid claim ID: %w", err)
	}

	ctx := context.Background()
	database, led, _, err := claimsStores(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := led.Delete(ctx, claimID); err != nil {
		return err
	}

	fmt.Printf("Deleted claim %s\n", claimID)
	return nil
}

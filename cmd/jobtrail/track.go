package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jkaplan/jobtrail/internal/db"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track job openings you are pursuing",
}

var trackAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new opening",
	RunE:  runTrackAdd,
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked openings",
	RunE:  runTrackList,
}

var trackStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an opening to a new pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackStatus,
}

var (
	trackAddCompany string
	trackAddRole    string
	trackAddURL     string
	trackAddNotes   string
	trackListStatus string
)

func init() {
	trackAddCmd.Flags().StringVar(&trackAddCompany, "company", "", "Company name (required)")
	trackAddCmd.Flags().StringVar(&trackAddRole, "role", "", "Role title (required)")
	trackAddCmd.Flags().StringVar(&trackAddURL, "url", "", "Job posting URL")
	trackAddCmd.Flags().StringVar(&trackAddNotes, "notes", "", "Free-form notes")
	_ = trackAddCmd.MarkFlagRequired("company")
	_ = trackAddCmd.MarkFlagRequired("role")

	trackListCmd.Flags().StringVar(&trackListStatus, "status", "", "Filter by status (saved, applied, interviewing, offer, closed)")

	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackStatusCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrackAdd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, _, err := requireDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	opp := &db.Opportunity{
		Company:    trackAddCompany,
		RoleTitle:  trackAddRole,
		PostingURL: trackAddURL,
		Notes:      trackAddNotes,
	}
	id, err := database.CreateOpportunity(ctx, opp)
	if err != nil {
		return err
	}

	fmt.Printf("Tracking %s at %s (%s)\n", trackAddRole, trackAddCompany, id)
	return nil
}

func runTrackList(_ *cobra.Command, _ []string) error {
	if trackListStatus != "" && !db.ValidOpportunityStatus(trackListStatus) {
		return fmt.Errorf("unknown status %q", trackListStatus)
	}

	ctx := context.Background()
	database, _, err := requireDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	opps, err := database.ListOpportunities(ctx, db.OpportunityFilters{Status: trackListStatus})
	if err != nil {
		return err
	}

	if len(opps) == 0 {
		fmt.Println("No tracked openings")
		return nil
	}
	for _, opp := range opps {
		fmt.Printf("%s  %-14s %s at %s\n", opp.ID, opp.Status, opp.RoleTitle, opp.Company)
	}
	return nil
}

func runTrackStatus(_ *cobra.Command, args []string) error {
	oppID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid opportunity ID: %w", err)
	}
	status := args[1]
	if !db.ValidOpportunityStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}

	ctx := context.Background()
	database, _, err := requireDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.UpdateOpportunityStatus(ctx, oppID, status); err != nil {
		return err
	}

	fmt.Printf("Moved %s to %s\n", oppID, status)
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/petfit-backend/internal/app"
	"github.com/yungbote/petfit-backend/internal/services"
)

var (
	recommendPet   string
	recommendForce bool
	recommendLimit int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print ranked recommendations for a pet as JSON",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendPet, "pet", "", "Pet id (required)")
	recommendCmd.Flags().BoolVar(&recommendForce, "force", false, "Bypass the cache and recompute")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "Maximum items to print (default: full list)")
	_ = recommendCmd.MarkFlagRequired("pet")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	petID, err := uuid.Parse(recommendPet)
	if err != nil {
		return fmt.Errorf("invalid --pet: %w", err)
	}
	if recommendLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		res, err := a.Services.Recommendation.GetRecommendations(ctx, petID, services.RecommendationOptions{
			ForceRefresh: recommendForce,
			Limit:        recommendLimit,
		})
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	})
}

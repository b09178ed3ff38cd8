package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/petfit-backend/internal/app"
	"github.com/yungbote/petfit-backend/internal/clients/redis"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop cached recommendations",
}

var invalidatePetCmd = &cobra.Command{
	Use:   "pet <pet-id>",
	Short: "Drop cached results, summary and scores for one pet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInvalidate(cmd, redis.ScopePet, args[0])
	},
}

var invalidateProductCmd = &cobra.Command{
	Use:   "product <product-id>",
	Short: "Drop cached match scores for one product across pets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInvalidate(cmd, redis.ScopeProduct, args[0])
	},
}

var invalidateAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Drop every cached recommendation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInvalidate(cmd, redis.ScopeAll, "")
	},
}

func init() {
	invalidateCmd.AddCommand(invalidatePetCmd, invalidateProductCmd, invalidateAllCmd)
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, scope, rawID string) error {
	var id uuid.UUID
	if rawID != "" {
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", rawID, err)
		}
		id = parsed
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		n, err := a.Invalidate(ctx, scope, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s: %d keys deleted\n", scope, n)
		return nil
	})
}

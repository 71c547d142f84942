package main

import (
	"context"
	"fmt"

	"github.com/localnerve/covematch/internal/services"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report rows that break a lifecycle invariant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				report, err := lifecycle.Audit(ctx)
				if err != nil {
					return err
				}
				if err := printJSON(cmd, report); err != nil {
					return err
				}
				if strict && !report.OK() {
					return fmt.Errorf("audit found violations")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the audit finds violations")
	return cmd
}

func newExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Expire active intentions past their validity now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				expired, err := lifecycle.ExpireIntentions(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]int64{"expired": expired})
			})
		},
	}
}

func newCreateMatchCmd() *cobra.Command {
	var (
		userIDs []string
		tier    int
		score   float64
	)
	cmd := &cobra.Command{
		Use:   "create-match",
		Short: "Form a match from users with active pooled intentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.CreateMatchInput{UserIDs: userIDs}
			if cmd.Flags().Changed("tier") {
				input.TierUsed = &tier
			}
			if cmd.Flags().Changed("score") {
				input.Score = &score
			}
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				match, err := lifecycle.CreateMatch(ctx, input)
				if err != nil {
					return err
				}
				return printJSON(cmd, match)
			})
		},
	}
	cmd.Flags().StringSliceVar(&userIDs, "user", nil, "member user id, repeat or comma separate")
	cmd.Flags().IntVar(&tier, "tier", 0, "pool tier the match was drawn from")
	cmd.Flags().Float64Var(&score, "score", 0, "matcher score")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newDeleteMatchCmd() *cobra.Command {
	var returnToPool bool
	cmd := &cobra.Command{
		Use:   "delete-match MATCH_ID",
		Short: "Delete a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				return lifecycle.DeleteMatch(ctx, operator, args[0], returnToPool)
			})
		},
	}
	cmd.Flags().BoolVar(&returnToPool, "return-to-pool", false, "release active members to the pool")
	return cmd
}

func newAddMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member MATCH_ID USER_ID",
		Short: "Add a user with an active intention to a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				return lifecycle.AddMember(ctx, operator, args[0], args[1])
			})
		},
	}
}

func newRemoveMemberCmd() *cobra.Command {
	var returnToPool bool
	cmd := &cobra.Command{
		Use:   "remove-member MATCH_ID USER_ID",
		Short: "Remove a user from a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				return lifecycle.RemoveMember(ctx, operator, args[0], args[1], returnToPool)
			})
		},
	}
	cmd.Flags().BoolVar(&returnToPool, "return-to-pool", false, "release the removed member to the pool")
	return cmd
}

func newMoveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move-member USER_ID FROM_MATCH_ID TO_MATCH_ID",
		Short: "Move a user from one match to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLifecycle(func(ctx context.Context, lifecycle *services.Lifecycle) error {
				return lifecycle.MoveMember(ctx, operator, args[0], args[1], args[2])
			})
		},
	}
}

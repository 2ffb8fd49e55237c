// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinerules/internal/recommend"
)

type recommendOptions struct {
	limit  int
	remine bool
	asJSON bool
}

func newRecommendCmd(global *globalOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend TITLE [TITLE...]",
		Short: "Suggest titles for users who liked the given titles",
		Long: `Suggest titles from the rules whose antecedent is contained in the given
titles. Titles must match the movie metadata exactly; quote titles that
contain spaces.

The latest model in the model store is used when there is one; otherwise
(or with --mine) the pipeline runs first.`,
		Example: `  cinerules recommend "Pulp Fiction"
  cinerules recommend "The Matrix" "Fight Club" --limit 5 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, global)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			return runRecommend(cmd.Context(), cmd.OutOrStdout(), a, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "maximum number of suggestions")
	cmd.Flags().BoolVar(&opts.remine, "mine", false, "mine a fresh model instead of using the stored one")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the response as JSON")

	return cmd
}

func runRecommend(ctx context.Context, w io.Writer, a *app, titles []string, opts *recommendOptions) error {
	if err := ensureModel(ctx, a, opts.remine); err != nil {
		return err
	}

	resp, err := a.engine.Recommend(ctx, recommend.Request{
		Items: titles,
		Limit: opts.limit,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		return printJSON(w, resp)
	}
	printRecommendations(w, "Query", resp)
	return nil
}

// ensureModel restores the latest stored model, mining one when the store
// is empty or disabled or when remine is set.
func ensureModel(ctx context.Context, a *app, remine bool) error {
	if !remine {
		restored, err := a.restoreLatest(ctx)
		if err != nil {
			return err
		}
		if restored {
			return nil
		}
	}

	if _, err := a.engine.Run(ctx); err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}
	return nil
}

// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinerules/internal/database"
	"github.com/tomtom215/cinerules/internal/recommend"
)

type mineOptions struct {
	top    int
	userID int64
	limit  int
	asJSON bool
}

var mineBindings = []flagBinding{
	{"export", "export.directory"},
	{"format", "export.format"},
}

func newMineCmd(global *globalOptions) *cobra.Command {
	opts := &mineOptions{}

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine rules from the ratings and recommend for an example user",
		Long: `Run the pipeline once: ingest the ratings, mine frequent itemsets, derive
association rules and publish the model (saved to the model store unless
--no-store is given).

The example user (the lowest user id, or --user) gets recommendations from
their own liked titles. With --export the rules, frequent itemsets and the
example user's recommendations are written to that directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, global, mineBindings...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("export") {
				cfg.Export.Enabled = true
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			return runMine(cmd.Context(), cmd.OutOrStdout(), a, opts)
		},
	}

	cmd.Flags().String("export", "", "write rules, itemsets and recommendations to this directory")
	cmd.Flags().String("format", "", "export format: csv, parquet or json")
	cmd.Flags().IntVar(&opts.top, "top", 10, "number of rules to print, by lift")
	cmd.Flags().Int64Var(&opts.userID, "user", 0, "example user id (default: lowest id)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "number of recommendations printed for the example user")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the model summary and recommendations as JSON")

	return cmd
}

// mineResult is the JSON form of a mine run.
type mineResult struct {
	ModelID         string              `json:"model_id"`
	Version         int                 `json:"version"`
	Params          recommend.Params    `json:"params"`
	Stats           recommend.RunStats  `json:"stats"`
	UserID          string              `json:"user_id,omitempty"`
	Recommendations *recommend.Response `json:"recommendations,omitempty"`
}

func runMine(ctx context.Context, w io.Writer, a *app, opts *mineOptions) error {
	model, err := a.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	user, titles, resp, err := recommendForExampleUser(ctx, a, opts.userID, opts.limit)
	if err != nil {
		return err
	}

	if a.exporter != nil && resp != nil {
		if err := exportRecommendations(ctx, a, user, titles); err != nil {
			return err
		}
	}

	if opts.asJSON {
		result := mineResult{
			ModelID:         model.ID,
			Version:         model.Version,
			Params:          model.Params,
			Stats:           model.Stats,
			Recommendations: resp,
		}
		if resp != nil {
			result.UserID = user
		}
		return printJSON(w, result)
	}

	printModelSummary(w, model)
	printTopRules(w, model.Rules, opts.top)
	if resp != nil {
		printRecommendations(w, "User "+user, resp)
	} else {
		fmt.Fprintln(w, "\nNo user liked any title; nothing to recommend.")
	}
	if a.exporter != nil {
		fmt.Fprintf(w, "\nExported to %s\n", a.cfg.Export.Directory)
	}
	return nil
}

// recommendForExampleUser queries the published model with one user's liked
// titles. userID 0 picks the lowest user id. A nil response means no user
// liked anything.
func recommendForExampleUser(ctx context.Context, a *app, userID int64, limit int) (string, []string, *recommend.Response, error) {
	users, err := a.source.LikedMovies(ctx)
	if err != nil {
		return "", nil, nil, err
	}
	if len(users) == 0 {
		return "", nil, nil, nil
	}

	chosen := users[0]
	if userID != 0 {
		found := false
		for _, u := range users {
			if u.UserID == userID {
				chosen, found = u, true
				break
			}
		}
		if !found {
			return "", nil, nil, fmt.Errorf("user %d has no liked titles", userID)
		}
	}

	id := strconv.FormatInt(chosen.UserID, 10)
	resp, err := a.engine.Recommend(ctx, recommend.Request{
		RequestID: "user-" + id,
		Items:     chosen.Titles,
		Limit:     limit,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrNoModel) {
			return "", nil, nil, fmt.Errorf("no model published: %w", err)
		}
		return "", nil, nil, err
	}
	return id, chosen.Titles, resp, nil
}

// exportRecommendations writes the complete suggestion set for titles; the
// --limit flag only shortens what is printed.
func exportRecommendations(ctx context.Context, a *app, userID string, titles []string) error {
	format, err := database.ParseExportFormat(a.cfg.Export.Format)
	if err != nil {
		return err
	}
	path := filepath.Join(a.cfg.Export.Directory, "recommendations"+format.Ext())

	recs, err := a.engine.Suggestions(titles)
	if err != nil {
		return err
	}
	n, err := a.db.ExportRecommendations(ctx, userID, recs, path, format)
	if err != nil {
		return err
	}
	a.logger.Info().Str("path", path).Str("user_id", userID).Int64("rows", n).Msg("recommendations exported")
	return nil
}

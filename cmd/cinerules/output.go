// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// printModelSummary writes the run statistics of a model.
func printModelSummary(w io.Writer, model *recommend.Model) {
	st := model.Stats
	fmt.Fprintf(w, "Model v%d (%s) built %s\n", model.Version, model.ID, model.BuiltAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Transactions:      %d users, %d distinct titles\n", st.Transactions, st.DistinctItems)

	levels := make([]string, len(st.LevelCounts))
	for i, n := range st.LevelCounts {
		levels[i] = fmt.Sprintf("size %d: %d", i+1, n)
	}
	fmt.Fprintf(w, "  Frequent itemsets: %d", model.Frequent.Len())
	if len(levels) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(levels, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Rules:             %d\n", len(model.Rules))
	fmt.Fprintf(w, "  Thresholds:        support %.3g, confidence %.3g, lift %.3g\n",
		model.Params.MinSupport, model.Params.MinConfidence, model.Params.MinLift)
	if st.TotalMS > 0 {
		fmt.Fprintf(w, "  Timing:            load %dms, mine %dms, rules %dms\n", st.LoadMS, st.MineMS, st.RulesMS)
	}
}

// printTopRules writes up to n rules ordered by lift, then confidence.
func printTopRules(w io.Writer, rules recommend.RuleSet, n int) {
	if len(rules) == 0 || n <= 0 {
		return
	}

	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b recommend.Rule) int {
		if c := cmp.Compare(b.Lift, a.Lift); c != 0 {
			return c
		}
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	fmt.Fprintf(w, "\nTop %d rules by lift:\n", len(sorted))
	for _, r := range sorted {
		fmt.Fprintf(w, "  %s\n", r)
		fmt.Fprintf(w, "      support %.3f  confidence %.3f  lift %.3f\n", r.Support, r.Confidence, r.Lift)
	}
}

// printRecommendations writes a query and its suggestions.
func printRecommendations(w io.Writer, title string, resp *recommend.Response) {
	fmt.Fprintf(w, "\n%s liked %d titles:\n", title, resp.Query.Len())
	for _, item := range resp.Query {
		fmt.Fprintf(w, "  - %s\n", item)
	}

	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "\nNo rule applies; try a lower --min-support or --min-confidence.")
		return
	}

	fmt.Fprintf(w, "\nRecommended (%d of %d):\n", len(resp.Items), resp.Metadata.TotalMatches)
	for i, rec := range resp.Items {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, rec.Item)
		fmt.Fprintf(w, "      confidence %.3f  lift %.3f  because %s\n", rec.Confidence, rec.Lift, rec.Because)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomtom215/cinerules/internal/config"
	"github.com/tomtom215/cinerules/internal/logging"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
}

// flagBinding maps a command line flag onto a koanf configuration path.
type flagBinding struct {
	flag string
	key  string
}

// persistentBindings apply to every subcommand.
var persistentBindings = []flagBinding{
	{"log-level", "logging.level"},
	{"log-format", "logging.format"},
	{"ratings", "data.ratings_path"},
	{"movies", "data.movies_path"},
	{"threshold", "data.like_threshold"},
	{"row-limit", "data.row_limit"},
	{"min-support", "mining.min_support"},
	{"min-confidence", "rules.min_confidence"},
	{"min-lift", "rules.min_lift"},
	{"max-size", "mining.max_itemset_size"},
	{"store", "store.path"},
	{"no-store", "store.enabled"},
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "cinerules",
		Short: "Association rule mining and movie recommendations",
		Long: `cinerules turns movie ratings into association rules and uses them to
suggest titles: users who liked these movies also liked...

Each user's liked titles (rating above the like threshold) form one
transaction. Apriori finds the frequent title sets, every split of a frequent
set is scored by confidence and lift, and suggestions are the consequents of
every rule whose antecedent the query already contains.

Examples:
  # Reproduce the reference run
  cinerules mine

  # Lower the support threshold and export the rules
  cinerules mine --min-support 0.05 --export output

  # Suggestions from the latest stored model
  cinerules recommend "The Matrix"

  # HTTP API
  cinerules serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error, disabled")
	flags.String("log-format", "", "log format: json or console")
	flags.String("ratings", "", "ratings CSV (userId, movieId, rating)")
	flags.String("movies", "", "movie metadata CSV (id, title)")
	flags.Float64("threshold", 0, "a rating strictly above this counts as a like")
	flags.Int("row-limit", 0, "read only the first N rows of each CSV (0 = all)")
	flags.Float64("min-support", 0, "minimum itemset support in (0, 1]")
	flags.Float64("min-confidence", 0, "minimum rule confidence in [0, 1]")
	flags.Float64("min-lift", 0, "minimum rule lift")
	flags.Int("max-size", 0, "largest itemset size to mine (0 = unbounded)")
	flags.String("store", "", "BadgerDB model store directory")
	flags.Bool("no-store", false, "do not read or write the model store")

	cmd.SuggestionsMinimumDistance = 2

	cmd.AddCommand(
		newMineCmd(opts),
		newRecommendCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig loads configuration with the flags the user set on top of the
// file and environment layers, then configures the global logger.
func loadConfig(cmd *cobra.Command, opts *globalOptions, bindings ...flagBinding) (*config.Config, error) {
	overrides, err := flagOverrides(cmd.Flags(), append(persistentBindings, bindings...))
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath, overrides)
	if err != nil {
		return nil, err
	}

	logging.Init(cfg.LogConfig())
	return cfg, nil
}

// flagOverrides returns the koanf values of every changed flag. Flags left at
// their default never override a lower layer.
func flagOverrides(fs *pflag.FlagSet, bindings []flagBinding) (map[string]any, error) {
	overrides := make(map[string]any)
	for _, b := range bindings {
		f := fs.Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}

		var (
			value any
			err   error
		)
		switch f.Value.Type() {
		case "float64":
			value, err = fs.GetFloat64(b.flag)
		case "int":
			value, err = fs.GetInt(b.flag)
		case "bool":
			var v bool
			v, err = fs.GetBool(b.flag)
			// --no-store is the negation of store.enabled.
			if b.flag == "no-store" {
				v = !v
			}
			value = v
		case "duration":
			value, err = fs.GetDuration(b.flag)
		case "stringSlice":
			value, err = fs.GetStringSlice(b.flag)
		default:
			value = f.Value.String()
		}
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", b.flag, err)
		}
		overrides[b.key] = value
	}
	return overrides, nil
}

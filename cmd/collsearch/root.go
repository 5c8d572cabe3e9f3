// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/cmd/collsearch/commands"
	"github.com/walteh/collsearch/cmd/collsearch/opts"
	"github.com/walteh/collsearch/pkg/config"
	"github.com/walteh/collsearch/pkg/log"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	locale     string
	encoding   string
}

// NewRootCmd creates the collsearch command tree
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "collsearch",
		Short: "Collation-aware find and replace",
		Long: `collsearch finds and replaces text by collation equality instead of byte
equality, so "cafe" can match "Café" under a loose locale. Arguments are
UTF-8 and are converted to the host encoding (--encoding) before matching.
Collation strength comes from the locale's ks key, e.g. und-u-ks-level1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), flags.debug)
			cmd.SetContext(ctx)
			return flags.load(ctx, cmd, o)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewFindCmd(o),
		commands.NewReplaceCmd(o),
		commands.NewCompareCmd(o),
		commands.NewSortKeyCmd(o),
		commands.NewAttributesCmd(o),
		commands.NewApplyCmd(o),
		commands.NewGrepCmd(o),
		NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: discovered .collsearch.* in the working directory)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&flags.locale, "locale", "l", "", "collation locale, e.g. de-u-ks-level1 (overrides config)")
	cmd.PersistentFlags().StringVarP(&flags.encoding, "encoding", "e", "", "host encoding, e.g. LATIN1 or EUC_JP (overrides config)")
}

// setupLogging puts a zerolog console logger on the context
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// load resolves the config and fills o
func (f *rootFlags) load(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) error {
	path := f.configFile
	if path == "" {
		path = config.Discover(".")
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if f.encoding != "" {
		cfg.Encoding = f.encoding
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("resolved configuration")

	o.Config = cfg
	o.UserLogger = log.NewUserLogger(ctx, cmd.ErrOrStderr())
	o.Console = log.NewWithZerolog(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
	return nil
}

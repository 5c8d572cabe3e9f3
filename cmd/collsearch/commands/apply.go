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

package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/cmd/collsearch/opts"
	"github.com/walteh/collsearch/pkg/config"
	"github.com/walteh/collsearch/pkg/log"
	"github.com/walteh/collsearch/pkg/operation"
	"github.com/walteh/collsearch/pkg/status"
)

// treeFlags are the file selection overrides shared by apply and grep
type treeFlags struct {
	root        string
	include     []string
	ignore      []string
	concurrency int
}

func (f *treeFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "directory to process (overrides config root)")
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "include globs (override config include)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "ignore globs (added to config ignore)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "files processed at once (overrides config)")
}

func (f *treeFlags) apply(cfg *config.Config) error {
	if f.root != "" {
		cfg.Root = f.root
	}
	if len(f.include) > 0 {
		cfg.Include = f.include
	}
	cfg.Ignore = append(cfg.Ignore, f.ignore...)
	if f.concurrency != 0 {
		cfg.Concurrency = f.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}
	return nil
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		tree   treeFlags
		backup bool
		async  bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the configured replacements to files",
		Long: `Apply rewrites every selected file under the root with the replacements
from the config file. Each replacement may name its own locale and a glob of
files it applies to. Changed files are written atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := o.Config

			if cmd.Flags().Changed("backup") {
				cfg.Backup = backup
			}
			if cmd.Flags().Changed("async") {
				cfg.Async = async
			}
			if err := tree.apply(cfg); err != nil {
				return err
			}

			if loc := cfg.Location(); loc != "" {
				o.UserLogger.Validation(true, fmt.Sprintf("using %s: %s", loc, cfg), nil)
			} else {
				o.UserLogger.Validation(false, "no config file found, using defaults", nil)
			}

			mgr := status.New(cfg.Root, zerolog.Ctx(ctx))
			op := operation.NewReplaceOperation(operation.Options{
				Config:    cfg,
				StatusMgr: mgr,
				Console:   o.Console,
			})

			o.Console.StartRun(ctx, log.RunOperation{Name: "apply", Root: cfg.Root, Locale: cfg.Locale, Encoding: cfg.Encoding})
			err := operation.NewRunner(cfg.Async).Run(ctx, op)
			o.Console.EndRun(ctx)
			if err != nil {
				return errors.Errorf("applying replacements: %w", err)
			}
			return nil
		},
	}

	tree.add(cmd)
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .bak copy of every rewritten file")
	cmd.Flags().BoolVar(&async, "async", false, "run on a goroutine that stops on interrupt")

	return cmd
}

// NewGrepCmd creates the grep command
func NewGrepCmd(o *opts.RootOpts) *cobra.Command {
	var tree treeFlags

	cmd := &cobra.Command{
		Use:   "grep NEEDLE",
		Short: "Print the first collation-equal match of NEEDLE in each file",
		Long: `Grep prints PATH:POSITION for every selected file that contains a
substring the collation considers equal to NEEDLE. POSITION is the 1-based
character position of the first match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := o.Config

			if err := tree.apply(cfg); err != nil {
				return err
			}

			op := operation.NewFindOperation(operation.Options{
				Config:    cfg,
				StatusMgr: status.New(cfg.Root, zerolog.Ctx(ctx)),
			}, args[0], "")

			runErr := operation.NewRunner(cfg.Async).Run(ctx, op)

			for _, r := range op.Results() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", r.Path, r.Position); err != nil {
					return err
				}
			}

			if runErr != nil {
				return errors.Errorf("searching files: %w", runErr)
			}
			return nil
		},
	}

	tree.add(cmd)

	return cmd
}

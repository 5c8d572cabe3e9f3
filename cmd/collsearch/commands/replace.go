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
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/cmd/collsearch/opts"
	"github.com/walteh/collsearch/pkg/text"
)

// NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "replace HAYSTACK NEEDLE REPLACEMENT",
		Short: "Replace every collation-equal match",
		Long: `Replace prints HAYSTACK with every non-overlapping substring that the
collation considers equal to NEEDLE replaced by REPLACEMENT. Matches are
found left to right and the search resumes after each match.`,
		Example: `  collsearch -l und-u-ks-level1 replace "Café CAFE" cafe tea
  collsearch -e LATIN1 replace crème è e`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			haystack, err := o.Text(args[0])
			if err != nil {
				return err
			}
			needle, err := o.Text(args[1])
			if err != nil {
				return err
			}
			replacement, err := o.Text(args[2])
			if err != nil {
				return err
			}

			coll, err := o.OpenCollator()
			if err != nil {
				return err
			}
			defer coll.Close()

			res, err := text.ReplaceWithStats(ctx, haystack, needle, replacement, coll)
			if err != nil {
				return errors.Errorf("replacing: %w", err)
			}

			if stats {
				o.UserLogger.Result("replacements", strconv.Itoa(res.Count))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "report the number of replacements on stderr")

	return cmd
}

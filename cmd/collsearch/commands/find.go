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

// NewFindCmd creates the find command
func NewFindCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find HAYSTACK NEEDLE",
		Short: "Print the position of the first collation-equal match",
		Long: `Find prints the 1-based character position of the first substring of
HAYSTACK that the collation considers equal to NEEDLE, or 0 when there is
none. An empty NEEDLE is found at position 1.`,
		Example: `  collsearch find "Straße und STRASSE" und
  collsearch -l und-u-ks-level1 find "Le CAFÉ" cafe`,
		Args: cobra.ExactArgs(2),
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

			coll, err := o.OpenCollator()
			if err != nil {
				return err
			}
			defer coll.Close()

			pos, err := text.Find(ctx, haystack, needle, coll)
			if err != nil {
				return errors.Errorf("finding: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(pos))
			return err
		},
	}

	return cmd
}

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
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/cmd/collsearch/opts"
	"github.com/walteh/collsearch/pkg/log"
)

// NewCompareCmd creates the compare command
func NewCompareCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Print -1, 0 or 1 as A sorts before, equal to or after B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.Units(args[0])
			if err != nil {
				return err
			}
			b, err := o.Units(args[1])
			if err != nil {
				return err
			}

			coll, err := o.OpenCollator()
			if err != nil {
				return err
			}
			defer coll.Close()

			res, err := coll.Compare(a, b)
			if err != nil {
				return errors.Errorf("comparing: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(res))
			return err
		},
	}

	return cmd
}

// NewSortKeyCmd creates the sortkey command
func NewSortKeyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sortkey TEXT",
		Short: "Print the hex collation sort key of TEXT",
		Long: `Sortkey prints the binary sort key of TEXT in hex. Byte-wise comparison
of two keys from the same locale orders the texts the way compare does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := o.Units(args[0])
			if err != nil {
				return err
			}

			coll, err := o.OpenCollator()
			if err != nil {
				return err
			}
			defer coll.Close()

			key, err := coll.SortKey(u)
			if err != nil {
				return errors.Errorf("computing sort key: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(key))
			return err
		},
	}

	return cmd
}

// NewAttributesCmd creates the attributes command
func NewAttributesCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "List the collation attributes of the locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := o.OpenCollator()
			if err != nil {
				return err
			}
			defer coll.Close()

			rows := [][]string{{"key", "value"}}
			for _, attr := range coll.Attributes(all) {
				rows = append(rows, []string{attr.Key, attr.Value})
			}

			return log.NewUserLogger(cmd.Context(), cmd.OutOrStdout()).Table(rows)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include attributes left at their default")

	return cmd
}

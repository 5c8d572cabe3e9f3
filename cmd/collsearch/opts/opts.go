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

package opts

import (
	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
	"github.com/walteh/collsearch/pkg/config"
	"github.com/walteh/collsearch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. The root command
// fills it in before any subcommand runs.
type RootOpts struct {
	Config     *config.Config
	UserLogger *log.UserLogger
	Console    *log.Logger
}

// Codec returns the configured host encoding.
func (o *RootOpts) Codec() *codec.Codec {
	return o.Config.Codec()
}

// Text converts a UTF-8 argument to host text.
func (o *RootOpts) Text(s string) (*codec.Text, error) {
	t, err := codec.FromString(s, o.Codec())
	if err != nil {
		return nil, errors.Errorf("converting argument %q: %w", s, err)
	}
	return t, nil
}

// Units converts a UTF-8 argument to host bytes and then to code units, so
// it fails the same way a host string would.
func (o *RootOpts) Units(s string) (codec.Units, error) {
	t, err := o.Text(s)
	if err != nil {
		return nil, err
	}
	u, err := o.Codec().Encode(t.Bytes())
	if err != nil {
		return nil, errors.Errorf("encoding argument %q: %w", s, err)
	}
	return u, nil
}

// OpenCollator opens the configured locale. The caller closes it.
func (o *RootOpts) OpenCollator() (*collation.Collator, error) {
	c, err := collation.Open(o.Config.Locale)
	if err != nil {
		return nil, errors.Errorf("opening collation %q: %w", o.Config.Locale, err)
	}
	return c, nil
}

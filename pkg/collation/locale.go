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

package collation

import (
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// 💪 Strength is the comparison level taken from the "ks" locale key
type Strength int

const (
	Primary   Strength = iota + 1 // base letters only
	Secondary                     // base letters and accents
	Tertiary                      // base letters, accents and case
	Identical                     // exact equivalence
)

func (s Strength) String() string {
	switch s {
	case Primary:
		return "level1"
	case Secondary:
		return "level2"
	case Tertiary:
		return "level3"
	case Identical:
		return "identic"
	default:
		return "unknown"
	}
}

func (s Strength) searchOptions() []search.Option {
	switch s {
	case Primary:
		return []search.Option{search.Loose}
	case Secondary:
		return []search.Option{search.IgnoreCase, search.IgnoreWidth}
	default:
		// identical matches with the default tertiary matcher
		return nil
	}
}

func (s Strength) collateOptions() []collate.Option {
	switch s {
	case Primary:
		return []collate.Option{collate.Loose}
	case Secondary:
		return []collate.Option{collate.IgnoreCase, collate.IgnoreWidth}
	default:
		return nil
	}
}

// ParseLocale validates a locale identifier and extracts its strength.
// Identifiers are BCP 47 tags; "root" and underscores are accepted the way
// ICU spells them.
func ParseLocale(locale string) (language.Tag, Strength, error) {
	name := strings.TrimSpace(locale)
	if name == "" {
		return language.Und, 0, errors.Errorf("%w: empty locale", ErrService)
	}
	if name == "root" {
		name = "und"
	}
	name = strings.ReplaceAll(name, "_", "-")

	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, 0, errors.Errorf("%w: parsing locale %q: %s", ErrService, locale, err.Error())
	}

	var strength Strength
	switch ks := tag.TypeForKey("ks"); ks {
	case "", "level3":
		strength = Tertiary
	case "level1":
		strength = Primary
	case "level2":
		strength = Secondary
	case "level4", "identic":
		strength = Identical
	default:
		return language.Und, 0, errors.Errorf("%w: locale %q: unsupported strength %q", ErrService, locale, ks)
	}

	return tag, strength, nil
}

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
	"sync"
	"sync/atomic"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/walteh/collsearch/pkg/codec"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// 📚 Collator is a Service backed by golang.org/x/text
type Collator struct {
	locale   string
	tag      language.Tag
	strength Strength
	matcher  *search.Matcher

	// collate.Collator keeps scratch buffers between calls
	mu   sync.Mutex
	coll *collate.Collator
	buf  collate.Buffer

	closed atomic.Bool
}

var _ Service = (*Collator)(nil)

// 🏭 Open creates a collator for a locale identifier such as "de",
// "fr-CA" or "und-u-ks-level1". The caller must Close it.
func Open(locale string) (*Collator, error) {
	tag, strength, err := ParseLocale(locale)
	if err != nil {
		return nil, errors.Errorf("opening collation: %w", err)
	}

	return &Collator{
		locale:   locale,
		tag:      tag,
		strength: strength,
		matcher:  search.New(tag, strength.searchOptions()...),
		coll:     collate.New(tag, strength.collateOptions()...),
	}, nil
}

// Close releases the collator. Using it afterwards fails with ErrService.
func (c *Collator) Close() error {
	if c.closed.Swap(true) {
		return errors.Errorf("%w: collator %q closed twice", ErrService, c.locale)
	}
	return nil
}

// Locale returns the identifier passed to Open.
func (c *Collator) Locale() string { return c.locale }

// Tag returns the parsed language tag.
func (c *Collator) Tag() language.Tag { return c.tag }

// Strength returns the comparison level.
func (c *Collator) Strength() Strength { return c.strength }

func (c *Collator) check(op string) error {
	if c.closed.Load() {
		return errors.Errorf("%w: %s on closed collator %q", ErrService, op, c.locale)
	}
	return nil
}

// ⚖️ Compare orders a and b under the collation rules.
func (c *Collator) Compare(a, b codec.Units) (int, error) {
	if err := c.check("compare"); err != nil {
		return 0, err
	}

	sa, sb := string(utf16.Decode(a)), string(utf16.Decode(b))

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll.CompareString(sa, sb), nil
}

// 🔑 SortKey returns a binary key whose byte order matches Compare.
func (c *Collator) SortKey(u codec.Units) ([]byte, error) {
	if err := c.check("sort key"); err != nil {
		return nil, err
	}

	s := string(utf16.Decode(u))

	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.coll.KeyFromString(&c.buf, s)
	out := make([]byte, len(key))
	copy(out, key)
	c.buf.Reset()
	return out, nil
}

// 🔍 Search opens a match stream over the haystack. The needle must not be
// empty.
func (c *Collator) Search(haystack, needle codec.Units, opts SearchOptions) (Stream, error) {
	if err := c.check("search"); err != nil {
		return nil, err
	}
	if len(needle) == 0 {
		return nil, errors.Errorf("%w: search needs a non-empty pattern", ErrService)
	}

	text, offsets := unitsToUTF8(haystack)
	pattern, _ := unitsToUTF8(needle)

	return &stream{
		pattern: c.matcher.Compile(pattern),
		text:    text,
		offsets: offsets,
		overlap: opts.Overlap,
	}, nil
}

// unitsToUTF8 decodes code units into UTF-8 and records, for every byte
// offset that starts a code point (and for the end), the matching code unit
// offset. Other entries are -1.
func unitsToUTF8(u codec.Units) ([]byte, []int) {
	out := make([]byte, 0, len(u)*2)
	offsets := make([]int, 0, len(u)*2+1)

	for i := 0; i < len(u); {
		width := codec.UnitWidth(u, i)
		var r rune
		if width == 2 {
			r = utf16.DecodeRune(rune(u[i]), rune(u[i+1]))
		} else {
			r = rune(u[i])
			if utf16.IsSurrogate(r) {
				r = utf8.RuneError
			}
		}

		before := len(out)
		out = utf8.AppendRune(out, r)
		offsets = append(offsets, i)
		for j := before + 1; j < len(out); j++ {
			offsets = append(offsets, -1)
		}
		i += width
	}
	offsets = append(offsets, len(u))

	return out, offsets
}

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
	"bytes"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/collsearch/pkg/codec"
	"gitlab.com/tozd/go/errors"
)

func units(s string) codec.Units {
	return codec.Units(utf16.Encode([]rune(s)))
}

func openT(t *testing.T, locale string) *Collator {
	t.Helper()
	c, err := Open(locale)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !c.closed.Load() {
			require.NoError(t, c.Close())
		}
	})
	return c
}

type found struct {
	Start, Len int
}

func collect(t *testing.T, s Stream) []found {
	t.Helper()
	var out []found
	for {
		start, err := s.Next()
		require.NoError(t, err)
		if start == Done {
			break
		}
		out = append(out, found{start, s.MatchedLength()})
	}
	require.NoError(t, s.Close())
	return out
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name         string
		locale       string
		wantStrength Strength
		wantError    bool
	}{
		{name: "root", locale: "root", wantStrength: Tertiary},
		{name: "plain_language", locale: "de", wantStrength: Tertiary},
		{name: "icu_underscore", locale: "fr_CA", wantStrength: Tertiary},
		{name: "primary", locale: "und-u-ks-level1", wantStrength: Primary},
		{name: "secondary", locale: "en-u-ks-level2", wantStrength: Secondary},
		{name: "identic", locale: "en-u-ks-identic", wantStrength: Identical},
		{name: "empty", locale: "  ", wantError: true},
		{name: "malformed", locale: "not a locale!", wantError: true},
		{name: "bad_strength", locale: "und-u-ks-level9", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(tt.locale)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrService), "error should wrap ErrService, got %v", err)
				assert.Contains(t, err.Error(), "opening collation")
				return
			}

			require.NoError(t, err)
			defer c.Close()
			assert.Equal(t, tt.wantStrength, c.Strength())
			assert.Equal(t, tt.locale, c.Locale())
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		haystack string
		needle   string
		overlap  bool
		want     []found
	}{
		{
			name:     "non_overlapping",
			locale:   "und",
			haystack: "nanana",
			needle:   "nana",
			want:     []found{{0, 4}},
		},
		{
			name:     "non_overlapping_twice",
			locale:   "und",
			haystack: "nananana",
			needle:   "nana",
			want:     []found{{0, 4}, {4, 4}},
		},
		{
			name:     "overlapping_when_asked",
			locale:   "und",
			haystack: "nanana",
			needle:   "nana",
			overlap:  true,
			want:     []found{{0, 4}, {2, 4}},
		},
		{
			name:     "no_match",
			locale:   "und",
			haystack: "abc",
			needle:   "z",
		},
		{
			name:     "accent_insensitive",
			locale:   "und-u-ks-level1",
			haystack: "café",
			needle:   "e",
			want:     []found{{3, 1}},
		},
		{
			name:     "case_insensitive",
			locale:   "und-u-ks-level2",
			haystack: "Hello WORLD",
			needle:   "world",
			want:     []found{{6, 5}},
		},
		{
			name:     "case_sensitive_by_default",
			locale:   "und",
			haystack: "Hello WORLD",
			needle:   "world",
		},
		{
			name:     "positions_count_surrogate_pairs",
			locale:   "und",
			haystack: "a😀b😀b",
			needle:   "b",
			want:     []found{{3, 1}, {6, 1}},
		},
		{
			name:     "match_covers_supplementary",
			locale:   "und",
			haystack: "x😀y",
			needle:   "😀y",
			want:     []found{{1, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openT(t, tt.locale)
			s, err := c.Search(units(tt.haystack), units(tt.needle), SearchOptions{Overlap: tt.overlap})
			require.NoError(t, err)
			assert.Equal(t, tt.want, collect(t, s))
		})
	}
}

func TestSearchErrors(t *testing.T) {
	t.Run("empty_needle", func(t *testing.T) {
		c := openT(t, "und")
		_, err := c.Search(units("abc"), nil, SearchOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))
	})

	t.Run("closed_collator", func(t *testing.T) {
		c := openT(t, "und")
		require.NoError(t, c.Close())
		_, err := c.Search(units("abc"), units("a"), SearchOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))

		err = c.Close()
		require.Error(t, err, "closing twice should fail")
	})

	t.Run("closed_stream", func(t *testing.T) {
		c := openT(t, "und")
		s, err := c.Search(units("abc"), units("a"), SearchOptions{})
		require.NoError(t, err)
		require.NoError(t, s.Close())
		_, err = s.Next()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))
	})
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		a, b   string
		want   int
	}{
		{name: "ordered", locale: "en", a: "apple", b: "banana", want: -1},
		{name: "reversed", locale: "en", a: "banana", b: "apple", want: 1},
		{name: "equal", locale: "en", a: "same", b: "same", want: 0},
		{name: "case_differs_at_tertiary", locale: "en", a: "a", b: "A", want: -1},
		{name: "loose_equal", locale: "en-u-ks-level1", a: "Café", b: "cafe", want: 0},
		{name: "accent_before_base_letter_order", locale: "en", a: "côte", b: "coteau", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openT(t, tt.locale)
			got, err := c.Compare(units(tt.a), units(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("closed", func(t *testing.T) {
		c := openT(t, "en")
		require.NoError(t, c.Close())
		_, err := c.Compare(units("a"), units("b"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))
	})
}

func TestSortKey(t *testing.T) {
	c := openT(t, "en")

	ka, err := c.SortKey(units("apple"))
	require.NoError(t, err)
	kb, err := c.SortKey(units("banana"))
	require.NoError(t, err)
	again, err := c.SortKey(units("apple"))
	require.NoError(t, err)

	assert.Equal(t, -1, bytes.Compare(ka, kb))
	assert.Equal(t, ka, again, "keys should not alias the scratch buffer")
}

func TestAttributes(t *testing.T) {
	c := openT(t, "de-u-ks-level1")

	assert.Equal(t, []Attribute{
		{Key: "locale", Value: "de-u-ks-level1"},
		{Key: "ks", Value: "level1"},
	}, c.Attributes(false))

	all := c.Attributes(true)
	assert.Len(t, all, 2+len(attributeDefaults))
	assert.Contains(t, all, Attribute{Key: "kb", Value: "false"})

	plain := openT(t, "fr")
	assert.Contains(t, plain.Attributes(false), Attribute{Key: "ks", Value: "level3"})
}

func TestUnitsToUTF8(t *testing.T) {
	text, offsets := unitsToUTF8(units("aé😀"))
	assert.Equal(t, []byte("aé😀"), text)
	assert.Equal(t, []int{0, 1, -1, 2, -1, -1, -1, 4}, offsets)

	lone, offsets := unitsToUTF8(codec.Units{0xdc00, 'x'})
	assert.Equal(t, []byte("�x"), lone)
	assert.Equal(t, []int{0, -1, -1, 1, 2}, offsets)
}

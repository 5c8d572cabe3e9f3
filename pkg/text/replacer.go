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

package text

import (
	"context"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// FromText is the text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// Locale selects the collation; empty means the replacer default
	Locale string

	// FileFilterGlob limits the rule to matching paths; empty matches all
	FileFilterGlob string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// Handle is a collation service that its opener must close.
type Handle interface {
	collation.Service
	io.Closer
}

// Opener opens a collation handle for a locale.
type Opener func(locale string) (Handle, error)

// OpenCollator is the default Opener.
func OpenCollator(locale string) (Handle, error) {
	c, err := collation.Open(locale)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// 🔁 CollationReplacer implements TextReplacer with collation-aware matching
type CollationReplacer struct {
	codec  *codec.Codec
	locale string
	open   Opener
}

var _ TextReplacer = (*CollationReplacer)(nil)

// 🏭 NewCollationReplacer creates a replacer for content in the given host
// encoding. defaultLocale applies to rules without a Locale.
func NewCollationReplacer(c *codec.Codec, defaultLocale string, open Opener) *CollationReplacer {
	if open == nil {
		open = OpenCollator
	}
	return &CollationReplacer{codec: c, locale: defaultLocale, open: open}
}

func (r *CollationReplacer) localeFor(rule ReplacementRule) string {
	if rule.Locale != "" {
		return rule.Locale
	}
	return r.locale
}

// ReplaceText applies the rules in order; each rule sees the output of the
// previous one.
func (r *CollationReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	if r.codec == nil {
		return nil, errors.Errorf("%w: replacer has no codec", ErrMisuse)
	}

	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: original,
		ModifiedContent: original,
	}

	current := codec.NewText(original, r.codec)
	for i, rule := range rules {
		if rule.FromText == "" {
			continue
		}

		res, err := r.applyRule(ctx, current, rule)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		if res.Changed {
			result.WasModified = true
			result.ReplacementCount += res.Count
		}
		current = res.Text
	}

	result.ModifiedContent = current.Bytes()
	return result, nil
}

func (r *CollationReplacer) applyRule(ctx context.Context, haystack *codec.Text, rule ReplacementRule) (*Result, error) {
	needle, err := codec.FromString(rule.FromText, r.codec)
	if err != nil {
		return nil, errors.Errorf("converting from_text: %w", err)
	}
	replacement, err := codec.FromString(rule.ToText, r.codec)
	if err != nil {
		return nil, errors.Errorf("converting to_text: %w", err)
	}

	locale := r.localeFor(rule)
	h, err := r.open(locale)
	if err != nil {
		return nil, errors.Errorf("opening collation %q: %w", locale, err)
	}

	res, err := ReplaceWithStats(ctx, haystack, needle, replacement, h)
	if cerr := h.Close(); cerr != nil && err == nil {
		err = errors.Errorf("closing collation %q: %w", locale, cerr)
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("from", rule.FromText).
		Str("locale", locale).
		Int("count", res.Count).
		Msg("applied rule")

	return res, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *CollationReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
		locale := r.localeFor(rule)
		if locale == "" {
			return errors.Errorf("rule %d: locale is required", i)
		}
		if _, _, err := collation.ParseLocale(locale); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// RulesFor returns the rules whose file filter matches path.
func RulesFor(path string, rules []ReplacementRule) []ReplacementRule {
	var out []ReplacementRule
	for _, rule := range rules {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		if ok, _ := doublestar.Match(rule.FileFilterGlob, path); ok {
			out = append(out, rule)
		}
	}
	return out
}

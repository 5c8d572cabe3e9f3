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

// Package text finds and replaces text under collation equivalence while
// keeping the host encoding of the input intact.
package text

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
	"github.com/walteh/collsearch/pkg/position"
	"github.com/walteh/collsearch/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// ErrMisuse is returned for calls rejected before any buffer work.
var ErrMisuse = scan.ErrMisuse

// 📊 Result describes a replace call
type Result struct {
	// Text is the output. When nothing changed it is the haystack itself.
	Text *codec.Text
	// Count is the number of replaced matches.
	Count int
	// Changed reports whether Text is a new buffer.
	Changed bool
}

func checkArgs(svc collation.Service, haystack *codec.Text, others ...*codec.Text) error {
	if svc == nil {
		return errors.Errorf("%w: no collation service", ErrMisuse)
	}
	if haystack == nil || haystack.Codec() == nil {
		return errors.Errorf("%w: haystack has no codec", ErrMisuse)
	}
	for _, o := range others {
		if o == nil || o.Codec() == nil {
			return errors.Errorf("%w: argument has no codec", ErrMisuse)
		}
		if o.Codec().Name() != haystack.Codec().Name() {
			return errors.Errorf("%w: mixed encodings %s and %s", ErrMisuse, haystack.Codec().Name(), o.Codec().Name())
		}
	}
	return nil
}

func encodeBoth(haystack, needle *codec.Text) (codec.Units, codec.Units, error) {
	hu, err := haystack.Codec().Encode(haystack.Bytes())
	if err != nil {
		return nil, nil, errors.Errorf("encoding haystack: %w", err)
	}
	nu, err := needle.Codec().Encode(needle.Bytes())
	if err != nil {
		return nil, nil, errors.Errorf("encoding needle: %w", err)
	}
	return hu, nu, nil
}

// 🔍 Find returns the 1-based character position of the first match of
// needle in haystack, or 0 when there is none. An empty needle is found at
// position 1, even in an empty haystack.
func Find(ctx context.Context, haystack, needle *codec.Text, svc collation.Service) (int, error) {
	if err := checkArgs(svc, haystack, needle); err != nil {
		return 0, err
	}
	if needle.IsEmpty() {
		return 1, nil
	}
	if haystack.IsEmpty() {
		return 0, nil
	}

	hu, nu, err := encodeBoth(haystack, needle)
	if err != nil {
		return 0, err
	}

	s, err := scan.New(hu, nu, svc)
	if err != nil {
		return 0, errors.Errorf("finding: %w", err)
	}
	defer s.Close()

	if !s.Next() {
		if err := s.Err(); err != nil {
			return 0, errors.Errorf("finding: %w", err)
		}
		return 0, nil
	}

	m := s.Match()
	at, err := position.New(haystack.Bytes(), hu, haystack.Codec()).Translate(m.Start, position.Cursor{})
	if err != nil {
		return 0, errors.Errorf("locating match at unit %d: %w", m.Start, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("locale", svc.Locale()).
		Str("class", haystack.Codec().Class().String()).
		Int("unit", m.Start).
		Int("char", at.Chars+1).
		Msg("found match")

	return at.Chars + 1, nil
}

// ✂️ Replace substitutes every non-overlapping match of needle with
// replacement. When needle is empty or absent the haystack pointer itself is
// returned.
func Replace(ctx context.Context, haystack, needle, replacement *codec.Text, svc collation.Service) (*codec.Text, error) {
	res, err := ReplaceWithStats(ctx, haystack, needle, replacement, svc)
	if err != nil {
		return nil, err
	}
	return res.Text, nil
}

// ReplaceWithStats is Replace with the number of replaced matches.
func ReplaceWithStats(ctx context.Context, haystack, needle, replacement *codec.Text, svc collation.Service) (*Result, error) {
	if err := checkArgs(svc, haystack, needle, replacement); err != nil {
		return nil, err
	}
	if haystack.IsEmpty() || needle.IsEmpty() {
		return &Result{Text: haystack}, nil
	}

	p, err := buildPlan(haystack, needle, replacement, svc)
	if err != nil {
		return nil, err
	}
	out := p.apply(haystack)

	zerolog.Ctx(ctx).Debug().
		Str("locale", svc.Locale()).
		Str("class", haystack.Codec().Class().String()).
		Int("matches", out.count).
		Msg("replaced matches")

	return &Result{Text: out.text(), Count: out.count, Changed: out.changed()}, nil
}

func buildPlan(haystack, needle, replacement *codec.Text, svc collation.Service) (*plan, error) {
	hu, nu, err := encodeBoth(haystack, needle)
	if err != nil {
		return nil, err
	}

	s, err := scan.New(hu, nu, svc)
	if err != nil {
		return nil, errors.Errorf("replacing: %w", err)
	}
	defer s.Close()

	tr := position.New(haystack.Bytes(), hu, haystack.Codec())
	p := &plan{}
	var cur position.Cursor

	for s.Next() {
		m := s.Match()
		begin, end, err := tr.Span(m.Start, m.Len, cur)
		if err != nil {
			return nil, errors.Errorf("locating match [%d,%d): %w", m.Start, m.End(), err)
		}
		p.add(cur.Bytes, begin.Bytes, replacement.Bytes())
		cur = end
	}
	if err := s.Err(); err != nil {
		return nil, errors.Errorf("replacing: %w", err)
	}
	p.tail = cur.Bytes

	return p, nil
}

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

// Package position maps UTF-16 code unit offsets back onto the host bytes
// they were built from.
package position

import (
	"unicode/utf8"

	"github.com/walteh/collsearch/pkg/codec"
	"gitlab.com/tozd/go/errors"
)

// ErrOutOfStep is returned when the host bytes and the code units stop
// agreeing on character boundaries.
var ErrOutOfStep = errors.Base("position translation out of step")

// 📍 Cursor is a known pair of offsets in both buffers. Chars counts the host
// characters before Bytes.
type Cursor struct {
	Units int
	Bytes int
	Chars int
}

// 🧭 Translator walks host bytes and code units in lock-step
type Translator struct {
	host  []byte
	units codec.Units
	codec *codec.Codec
}

// New creates a translator. units must be the result of c.Encode(host).
func New(host []byte, units codec.Units, c *codec.Codec) *Translator {
	return &Translator{host: host, units: units, codec: c}
}

// 🔀 Translate advances from a previously translated cursor to the code unit
// offset target. Targets must be non-decreasing across calls that share a
// cursor, which keeps the total cost linear in the haystack length.
func (t *Translator) Translate(target int, from Cursor) (Cursor, error) {
	if target < from.Units {
		return from, errors.Errorf("%w: target %d is behind cursor %d", ErrOutOfStep, target, from.Units)
	}
	if target > len(t.units) {
		return from, errors.Errorf("%w: target %d is past the end (%d code units)", ErrOutOfStep, target, len(t.units))
	}

	if t.codec.Class() == codec.SingleByte {
		delta := target - from.Units
		return Cursor{Units: target, Bytes: from.Bytes + delta, Chars: from.Chars + delta}, nil
	}

	cur := from
	for cur.Units < target {
		width := codec.UnitWidth(t.units, cur.Units)
		if cur.Units+width > target {
			return cur, errors.Errorf("%w: target %d splits a surrogate pair", ErrOutOfStep, target)
		}

		n := t.charLen(cur.Bytes)
		if n <= 0 || cur.Bytes+n > len(t.host) {
			return cur, errors.Errorf("%w: host bytes exhausted at offset %d", ErrOutOfStep, cur.Bytes)
		}

		cur.Units += width
		cur.Bytes += n
		cur.Chars++
	}
	return cur, nil
}

// Span translates a code unit range [start, start+length) and returns the
// cursors at both ends. The end cursor is the resume point for the next call.
func (t *Translator) Span(start, length int, from Cursor) (Cursor, Cursor, error) {
	begin, err := t.Translate(start, from)
	if err != nil {
		return from, from, errors.Errorf("translating span start: %w", err)
	}
	end, err := t.Translate(start+length, begin)
	if err != nil {
		return begin, begin, errors.Errorf("translating span end: %w", err)
	}
	return begin, end, nil
}

func (t *Translator) charLen(off int) int {
	if off >= len(t.host) {
		return 0
	}
	if t.codec.Class() == codec.UTF8Compatible {
		_, size := utf8.DecodeRune(t.host[off:])
		return size
	}
	return t.codec.CharLen(t.host[off:])
}

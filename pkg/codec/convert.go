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

package codec

import (
	"unicode/utf16"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Encode converts host bytes into UTF-16 code units. Every host character
// must decode to exactly one code point, otherwise ErrEncoding is returned.
func (c *Codec) Encode(b []byte) (Units, error) {
	switch c.class {
	case SingleByte:
		return c.encodeSingleByte(b)
	case UTF8Compatible:
		return encodeUTF8(b)
	default:
		return c.encodeMultiByte(b)
	}
}

func (c *Codec) encodeSingleByte(b []byte) (Units, error) {
	units := make(Units, len(b))
	for i, x := range b {
		r := c.cmap.DecodeByte(x)
		if r == utf8.RuneError {
			return nil, errors.Errorf("%w: %s byte 0x%02x at offset %d is undefined", ErrEncoding, c.name, x, i)
		}
		units[i] = uint16(r)
	}
	return units, nil
}

func encodeUTF8(b []byte) (Units, error) {
	units := make(Units, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, errors.Errorf("%w: invalid UTF-8 sequence at offset %d", ErrEncoding, i)
		}
		units = utf16.AppendRune(units, r)
		i += size
	}
	return units, nil
}

func (c *Codec) encodeMultiByte(b []byte) (Units, error) {
	dec := c.enc.NewDecoder()
	units := make(Units, 0, len(b))
	var buf [2 * utf8.UTFMax]byte

	for i := 0; i < len(b); {
		n := c.charLen(b[i:])
		if n < 1 || n > c.maxLen {
			return nil, errors.Errorf("%w: bad %s character framing at offset %d", ErrEncoding, c.name, i)
		}
		if i+n > len(b) {
			return nil, errors.Errorf("%w: truncated %s character at offset %d", ErrEncoding, c.name, i)
		}

		dec.Reset()
		nDst, nSrc, err := dec.Transform(buf[:], b[i:i+n], true)
		if err != nil || nSrc != n {
			return nil, errors.Errorf("%w: invalid %s character at offset %d", ErrEncoding, c.name, i)
		}

		r, size := utf8.DecodeRune(buf[:nDst])
		if nDst == 0 || size != nDst || r == utf8.RuneError {
			return nil, errors.Errorf("%w: invalid %s character at offset %d", ErrEncoding, c.name, i)
		}

		units = utf16.AppendRune(units, r)
		i += n
	}
	return units, nil
}

// 🔄 Decode converts UTF-16 code units back into host bytes.
func (c *Codec) Decode(u Units) ([]byte, error) {
	for i := 0; i < len(u); i++ {
		switch {
		case isHighSurrogate(u[i]) && i+1 < len(u) && isLowSurrogate(u[i+1]):
			i++
		case utf16.IsSurrogate(rune(u[i])):
			return nil, errors.Errorf("%w: unpaired surrogate at code unit %d", ErrEncoding, i)
		}
	}
	return c.FromUTF8(string(utf16.Decode(u)))
}

// FromUTF8 converts a UTF-8 string into host bytes.
func (c *Codec) FromUTF8(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errors.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}

	switch c.class {
	case UTF8Compatible:
		return []byte(s), nil
	case SingleByte:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			b, ok := c.cmap.EncodeRune(r)
			if !ok {
				return nil, errors.Errorf("%w: %U cannot be represented in %s", ErrEncoding, r, c.name)
			}
			out = append(out, b)
		}
		return out, nil
	default:
		out, err := c.enc.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Errorf("%w: converting to %s: %s", ErrEncoding, c.name, err.Error())
		}
		return out, nil
	}
}

// ToUTF8 converts host bytes into a UTF-8 string.
func (c *Codec) ToUTF8(b []byte) (string, error) {
	if c.class == UTF8Compatible {
		if !utf8.Valid(b) {
			return "", errors.Errorf("%w: invalid UTF-8 input", ErrEncoding)
		}
		return string(b), nil
	}
	units, err := c.Encode(b)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }

func isLowSurrogate(u uint16) bool { return u >= 0xDC00 && u <= 0xDFFF }

// UnitWidth returns the number of code units taken by the code point starting
// at u[i]: 2 for a well-formed surrogate pair, 1 otherwise.
func UnitWidth(u Units, i int) int {
	if isHighSurrogate(u[i]) && i+1 < len(u) && isLowSurrogate(u[i+1]) {
		return 2
	}
	return 1
}

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
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrEncoding is returned when host bytes (or code units) cannot be converted.
	ErrEncoding = errors.Base("malformed text for encoding")

	// ErrUnsupportedEncoding is returned by Lookup for unknown or stateful encodings.
	ErrUnsupportedEncoding = errors.Base("unsupported encoding")
)

// 🏷️ Class groups host encodings by how their characters map to code units
type Class int

const (
	SingleByte       Class = iota // one byte is one character is one code unit
	UTF8Compatible                // host bytes are UTF-8
	GenericMultiByte              // lead byte decides the character length
)

func (c Class) String() string {
	switch c {
	case SingleByte:
		return "single-byte"
	case UTF8Compatible:
		return "utf-8"
	case GenericMultiByte:
		return "multi-byte"
	default:
		return "unknown"
	}
}

// Units is a buffer of UTF-16 code units built from host text.
type Units []uint16

// 🔤 Codec converts between one host encoding and UTF-16 code units
type Codec struct {
	name    string
	enc     encoding.Encoding
	class   Class
	cmap    *charmap.Charmap
	charLen func([]byte) int
	maxLen  int
}

// 🗺️ aliases maps server-style encoding names onto IANA names
var aliases = map[string]string{
	"UTF8":       "UTF-8",
	"UNICODE":    "UTF-8",
	"LATIN1":     "ISO-8859-1",
	"LATIN2":     "ISO-8859-2",
	"LATIN3":     "ISO-8859-3",
	"LATIN4":     "ISO-8859-4",
	"LATIN5":     "ISO-8859-9",
	"LATIN6":     "ISO-8859-10",
	"LATIN7":     "ISO-8859-13",
	"LATIN8":     "ISO-8859-14",
	"LATIN9":     "ISO-8859-15",
	"LATIN10":    "ISO-8859-16",
	"ISO_8859_5": "ISO-8859-5",
	"ISO_8859_6": "ISO-8859-6",
	"ISO_8859_7": "ISO-8859-7",
	"ISO_8859_8": "ISO-8859-8",
	"WIN866":     "IBM866",
	"WIN874":     "windows-874",
	"WIN1250":    "windows-1250",
	"WIN1251":    "windows-1251",
	"WIN1252":    "windows-1252",
	"WIN1253":    "windows-1253",
	"WIN1254":    "windows-1254",
	"WIN1255":    "windows-1255",
	"WIN1256":    "windows-1256",
	"WIN1257":    "windows-1257",
	"WIN1258":    "windows-1258",
	"KOI8R":      "KOI8-R",
	"KOI8U":      "KOI8-U",
	"EUC_JP":     "EUC-JP",
	"SJIS":       "Shift_JIS",
	"SHIFT-JIS":  "Shift_JIS",
	"EUC_KR":     "EUC-KR",
	"BIG5":       "Big5",
}

// 📏 multiByte lists the multi-byte encodings whose characters can be
// delimited from the lead byte alone
var multiByte = []struct {
	enc     encoding.Encoding
	charLen func([]byte) int
	maxLen  int
}{
	{japanese.EUCJP, eucJPCharLen, 3},
	{japanese.ShiftJIS, shiftJISCharLen, 2},
	{korean.EUCKR, eucKRCharLen, 2},
	{simplifiedchinese.GBK, gbkCharLen, 2},
	{simplifiedchinese.GB18030, gb18030CharLen, 4},
	{traditionalchinese.Big5, big5CharLen, 2},
}

// 🔍 Lookup resolves a host encoding by name
func Lookup(name string) (*Codec, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return nil, errors.Errorf("%w: empty encoding name", ErrUnsupportedEncoding)
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(key)
		if err != nil || enc == nil {
			return nil, errors.Errorf("%w: %q", ErrUnsupportedEncoding, name)
		}
	}

	return newCodec(key, enc)
}

// MustLookup is like Lookup but panics on error. Meant for tests and
// package-level defaults.
func MustLookup(name string) *Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

func newCodec(key string, enc encoding.Encoding) (*Codec, error) {
	c := &Codec{enc: enc, name: key}
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if canonical, err := index.Name(enc); err == nil && canonical != "" {
			c.name = canonical
			break
		}
	}

	switch {
	case enc == unicode.UTF8:
		c.class = UTF8Compatible
		c.charLen = utf8CharLen
		c.maxLen = 4
	default:
		if cm, ok := enc.(*charmap.Charmap); ok {
			c.class = SingleByte
			c.cmap = cm
			c.charLen = func([]byte) int { return 1 }
			c.maxLen = 1
			return c, nil
		}
		for _, mb := range multiByte {
			if mb.enc == enc {
				c.class = GenericMultiByte
				c.charLen = mb.charLen
				c.maxLen = mb.maxLen
				return c, nil
			}
		}
		return nil, errors.Errorf("%w: %q has no fixed character framing", ErrUnsupportedEncoding, key)
	}

	return c, nil
}

// Name returns the canonical name of the host encoding.
func (c *Codec) Name() string { return c.name }

// Class returns the encoding class.
func (c *Codec) Class() Class { return c.class }

// MaxCharLen returns the longest byte length of one host character.
func (c *Codec) MaxCharLen() int { return c.maxLen }

// CharLen returns the byte length of the host character starting at b[0].
// The result may exceed len(b) when b ends in a truncated character.
func (c *Codec) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return c.charLen(b)
}

func (c *Codec) String() string {
	return c.name + " (" + c.class.String() + ")"
}

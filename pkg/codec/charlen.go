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

// Lead-byte tables. Every function expects len(b) > 0.

func utf8CharLen(b []byte) int {
	switch c := b[0]; {
	case c < 0x80:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

func eucJPCharLen(b []byte) int {
	switch c := b[0]; {
	case c == 0x8E: // SS2, half-width katakana
		return 2
	case c == 0x8F: // SS3, JIS X 0212
		return 3
	case c >= 0x80:
		return 2
	default:
		return 1
	}
}

func shiftJISCharLen(b []byte) int {
	c := b[0]
	if (c >= 0x81 && c <= 0x9F) || (c >= 0xE0 && c <= 0xFC) {
		return 2
	}
	return 1
}

func eucKRCharLen(b []byte) int {
	if b[0] >= 0x80 {
		return 2
	}
	return 1
}

func gbkCharLen(b []byte) int {
	if b[0] >= 0x81 && b[0] <= 0xFE {
		return 2
	}
	return 1
}

func gb18030CharLen(b []byte) int {
	if b[0] < 0x81 || b[0] > 0xFE {
		return 1
	}
	if len(b) >= 2 && b[1] >= 0x30 && b[1] <= 0x39 {
		return 4
	}
	return 2
}

func big5CharLen(b []byte) int {
	if b[0] >= 0x81 && b[0] <= 0xFE {
		return 2
	}
	return 1
}

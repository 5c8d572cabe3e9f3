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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser reads .collsearch.json files. The top-level keys are
// encoding, locale, root, include, ignore, replacements, backup, async and
// concurrency; each replacement takes old, new and the optional locale and
// file. Unknown keys are rejected, and an empty file yields an empty config
// the same way the YAML parser does.
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".json")
}

// 📝 Parse decodes exactly one JSON object into a Config
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return &Config{}, nil
	}

	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if decoder.More() {
		return nil, errors.Errorf("parsing JSON: unexpected data after the config object at offset %d", decoder.InputOffset())
	}
	return &cfg, nil
}

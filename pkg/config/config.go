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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
	"github.com/walteh/collsearch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultEncoding    = "UTF-8"
	DefaultLocale      = "und"
	DefaultConcurrency = 4
)

// DefaultFiles are the file names Discover looks for, in order.
var DefaultFiles = []string{".collsearch.yaml", ".collsearch.yml", ".collsearch.json", ".collsearch.hcl"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Replacement represents a collation-aware string replacement
type Replacement struct {
	Old    string  `json:"old" yaml:"old"`                           // Text to search for
	New    string  `json:"new" yaml:"new"`                           // Text to put in its place
	Locale *string `json:"locale,omitempty" yaml:"locale,omitempty"` // Optional collation override
	File   *string `json:"file,omitempty" yaml:"file,omitempty"`     // Optional glob of files to apply to
}

// 📚 Config represents the complete configuration
type Config struct {
	Encoding     string        `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Locale       string        `json:"locale,omitempty" yaml:"locale,omitempty"`
	Root         string        `json:"root,omitempty" yaml:"root,omitempty"`
	Include      []string      `json:"include,omitempty" yaml:"include,omitempty"`
	Ignore       []string      `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Replacements []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Backup       bool          `json:"backup,omitempty" yaml:"backup,omitempty"`
	Async        bool          `json:"async,omitempty" yaml:"async,omitempty"`
	Concurrency  int           `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	location string
}

// 🏭 Default returns a validated config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔭 Discover returns the first default config file found in dir, or "" when
// there is none.
func Discover(dir string) string {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// 🔍 Validate fills defaults and checks that the configuration is usable
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*"}
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	// Clean up paths
	cfg.Root = filepath.Clean(cfg.Root)

	if _, err := codec.Lookup(cfg.Encoding); err != nil {
		return errors.Errorf("encoding: %w", err)
	}
	if _, _, err := collation.ParseLocale(cfg.Locale); err != nil {
		return errors.Errorf("locale: %w", err)
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}

	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("include: invalid pattern %q", pattern)
		}
	}
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore: invalid pattern %q", pattern)
		}
	}

	for i, r := range cfg.Replacements {
		if r.Old == "" {
			return errors.Errorf("replacements[%d]: old is required", i)
		}
		if r.Locale != nil {
			if _, _, err := collation.ParseLocale(*r.Locale); err != nil {
				return errors.Errorf("replacements[%d]: locale: %w", i, err)
			}
		}
		if r.File != nil && !doublestar.ValidatePattern(*r.File) {
			return errors.Errorf("replacements[%d]: invalid file pattern %q", i, *r.File)
		}
	}

	return nil
}

// Codec returns the host encoding codec. Validate must have succeeded.
func (cfg *Config) Codec() *codec.Codec {
	return codec.MustLookup(cfg.Encoding)
}

// Rules converts the replacements into text rules.
func (cfg *Config) Rules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		rule := text.ReplacementRule{FromText: r.Old, ToText: r.New}
		if r.Locale != nil {
			rule.Locale = *r.Locale
		}
		if r.File != nil {
			rule.FileFilterGlob = *r.File
		}
		rules = append(rules, rule)
	}
	return rules
}

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string { return cfg.location }

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s [%s, %s] %d replacement(s)", cfg.Root, cfg.Encoding, cfg.Locale, len(cfg.Replacements))
}

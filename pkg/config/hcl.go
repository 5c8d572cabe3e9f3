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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// can read the process environment as env.NAME and use upper, lower and
// trimspace.
type HCLParser struct {
	// Environ overrides os.Environ, mostly for tests.
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

func (p *HCLParser) evalContext() *hcl.EvalContext {
	environ := os.Environ
	if p.Environ != nil {
		environ = p.Environ
	}

	vars := map[string]cty.Value{}
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Encoding     string   `hcl:"encoding,optional"`
		Locale       string   `hcl:"locale,optional"`
		Root         string   `hcl:"root,optional"`
		Include      []string `hcl:"include,optional"`
		Ignore       []string `hcl:"ignore,optional"`
		Backup       bool     `hcl:"backup,optional"`
		Async        bool     `hcl:"async,optional"`
		Concurrency  int      `hcl:"concurrency,optional"`
		Replacements []struct {
			Old    string  `hcl:"old"`
			New    string  `hcl:"new"`
			Locale *string `hcl:"locale,optional"`
			File   *string `hcl:"file,optional"`
		} `hcl:"replacement,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, p.evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Encoding:    hclCfg.Encoding,
		Locale:      hclCfg.Locale,
		Root:        hclCfg.Root,
		Include:     hclCfg.Include,
		Ignore:      hclCfg.Ignore,
		Backup:      hclCfg.Backup,
		Async:       hclCfg.Async,
		Concurrency: hclCfg.Concurrency,
	}
	for _, r := range hclCfg.Replacements {
		cfg.Replacements = append(cfg.Replacements, Replacement{
			Old:    r.Old,
			New:    r.New,
			Locale: r.Locale,
			File:   r.File,
		})
	}

	return cfg, nil
}

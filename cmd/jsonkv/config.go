package main

import (
	"fmt"
	"os"

	"github.com/jpl-au/jsonkv"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of jsonkv.Config.
//
//	doc: settings
//	cache: true
//	deferred: false
//	spaces: 4
//	hash: xxh3
type fileConfig struct {
	Doc      string `yaml:"doc"`
	Cache    bool   `yaml:"cache"`
	Deferred bool   `yaml:"deferred"`
	Spaces   int    `yaml:"spaces"`
	Hash     string `yaml:"hash"`
}

var hashAlgorithms = map[string]int{
	"":        0,
	"xxh3":    jsonkv.AlgXXHash3,
	"fnv1a":   jsonkv.AlgFNV1a,
	"blake2b": jsonkv.AlgBlake2b,
}

// loadConfig reads path, or returns the zero config when path is empty.
func loadConfig(path string) (jsonkv.Config, error) {
	var cfg jsonkv.Config
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	alg, ok := hashAlgorithms[fc.Hash]
	if !ok {
		return cfg, fmt.Errorf("config %s: unknown hash %q", path, fc.Hash)
	}
	cfg.FileName = fc.Doc
	cfg.Cache = fc.Cache
	cfg.Spaces = fc.Spaces
	cfg.HashAlgorithm = alg
	if fc.Deferred {
		cfg.Write = jsonkv.WriteDeferred
	}
	return cfg, nil
}

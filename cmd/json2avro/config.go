package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/naming"
)

// fileConfig is the YAML document accepted by -config.
type fileConfig struct {
	NameTransform     string   `yaml:"nameTransform"`     // naming.Lookup name, e.g. "sanitize+lower"
	ExtraPropsSources []string `yaml:"extraPropsSources"` // omitted means the library defaults
	ExtraPropsField   string   `yaml:"extraPropsField"`
	UnknownFields     string   `yaml:"unknownFields"` // fail (default), warn or ignore
	DuplicateKeys     string   `yaml:"duplicateKeys"` // ignore (default), warn or error
	MaxDepth          int      `yaml:"maxDepth"`
	MaxBytes          int64    `yaml:"maxBytes"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) options(logger *slog.Logger) (jsonavro.Options, error) {
	var opts jsonavro.Options
	tr, err := naming.Lookup(c.NameTransform)
	if err != nil {
		return opts, err
	}
	opts.NameTransform = tr
	opts.ExtraPropsSources = c.ExtraPropsSources
	opts.ExtraPropsField = c.ExtraPropsField

	switch c.UnknownFields {
	case "", "fail":
		opts.UnknownField = jsonavro.FailOnUnknownField
	case "warn":
		opts.UnknownField = jsonavro.LogOnUnknownField(logger)
	case "ignore":
		opts.UnknownField = jsonavro.IgnoreUnknownField
	default:
		return opts, fmt.Errorf("unknownFields: want fail, warn or ignore, got %q", c.UnknownFields)
	}

	switch c.DuplicateKeys {
	case "", "ignore":
		opts.Decode.OnDuplicateKey = jsonavro.Ignore
	case "warn":
		opts.Decode.OnDuplicateKey = jsonavro.Warn
	case "error":
		opts.Decode.OnDuplicateKey = jsonavro.Error
	default:
		return opts, fmt.Errorf("duplicateKeys: want ignore, warn or error, got %q", c.DuplicateKeys)
	}
	opts.Decode.OnWarning = func(is jsonavro.Issue) {
		logger.Warn("input warning", "code", is.Code, "path", is.Path, "msg", is.Message)
	}
	opts.Decode.MaxDepth = c.MaxDepth
	opts.Decode.MaxBytes = c.MaxBytes
	return opts, nil
}

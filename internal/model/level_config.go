package model

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// LevelConfig is the decoded per-level config blob. Each game reads its own
// keys through the typed accessors; a malformed or missing key yields the
// caller's default instead of undefined behavior.
type LevelConfig map[string]interface{}

// ParseLevelConfig never fails: an empty or malformed blob decodes to an
// empty map so every accessor falls back to its default.
func ParseLevelConfig(raw json.RawMessage) LevelConfig {
	if len(raw) == 0 {
		return LevelConfig{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return LevelConfig{}
	}
	return m
}

func (c LevelConfig) Int(key string, def int) int {
	v, ok := c[key]
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func (c LevelConfig) String(key string, def string) string {
	v, ok := c[key]
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

func (c LevelConfig) Bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func (c LevelConfig) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

func (c LevelConfig) StringSlice(key string) []string {
	v, ok := c[key]
	if !ok {
		return nil
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	return s
}

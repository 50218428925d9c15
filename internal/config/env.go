package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of sabrevga environment variables.
const EnvPrefix = "SABREVGA_"

// envAliases maps short variable names to setting paths.
var envAliases = map[string]string{
	"WIDTH":  "screen.width",
	"HEIGHT": "screen.height",
	"FPS":    "host.fps",
	"MODE":   "host.mode",
}

// ApplyEnv overrides settings from prefixed environment variables.
//
// The variable name after the prefix is matched against setting paths with
// underscores standing for both the section separator and underscores within
// a key, so SABREVGA_SCREEN_CELL_WIDTH sets screen.cell_width and
// SABREVGA_SCREEN_MARGINS_LEFT sets screen.margins.left. Variables that name
// no setting are ignored.
func (c *Config) ApplyEnv(prefix string) error {
	return c.applyEnv(prefix, os.Environ())
}

func (c *Config) applyEnv(prefix string, environ []string) error {
	vars := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		vars[name] = value
	}
	if len(vars) == 0 {
		return nil
	}

	tree, err := c.tree()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	applied := 0
	for _, name := range names {
		key := strings.ToUpper(strings.TrimPrefix(name, prefix))
		var parts []string
		if path, ok := envAliases[key]; ok {
			parts = strings.Split(path, ".")
		} else {
			parts = envToPath(tree, strings.Split(strings.ToLower(key), "_"))
		}
		if parts == nil {
			continue
		}

		if err := setByPath(tree, parts, vars[name]); err != nil {
			errs = append(errs, &ParseError{Path: name, Message: err.Error(), Err: err})
			continue
		}
		applied++
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if applied == 0 {
		return nil
	}

	return c.fromTree(tree)
}

// tree renders the configuration as nested maps keyed by file names.
func (c *Config) tree() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return tree, nil
}

func (c *Config) fromTree(tree map[string]any) error {
	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	next := Default()
	if err := toml.Unmarshal(data, next); err != nil {
		return &ParseError{Path: "<environment>", Message: err.Error(), Err: err}
	}
	*c = *next
	return nil
}

// envToPath resolves underscore-separated words to a setting path by
// greedily matching the longest key at each level. It returns nil when no
// setting matches.
func envToPath(tree map[string]any, words []string) []string {
	for n := len(words); n > 0; n-- {
		key := strings.Join(words[:n], "_")
		v, ok := tree[key]
		if !ok {
			continue
		}
		if n == len(words) {
			if _, isTable := v.(map[string]any); isTable {
				return nil
			}
			return []string{key}
		}
		sub, isTable := v.(map[string]any)
		if !isTable {
			continue
		}
		if rest := envToPath(sub, words[n:]); rest != nil {
			return append([]string{key}, rest...)
		}
	}
	return nil
}

// setByPath parses raw according to the type of the existing value.
func setByPath(tree map[string]any, parts []string, raw string) error {
	m := tree
	for _, p := range parts[:len(parts)-1] {
		sub, ok := m[p].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(parts, "."))
		}
		m = sub
	}

	leaf := parts[len(parts)-1]
	current, ok := m[leaf]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(parts, "."))
	}

	value, err := parseValue(current, raw)
	if err != nil {
		return err
	}
	m[leaf] = value
	return nil
}

func parseValue(current any, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrTypeMismatch, raw)
		}
		return b, nil
	case int64:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, raw)
		}
		return i, nil
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, raw)
		}
		return f, nil
	case string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: cannot set %T", ErrTypeMismatch, current)
	}
}

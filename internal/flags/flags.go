// Package flags parses, merges, and renders the command-line flags passed to
// the editor when it is launched.
package flags

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flags maps a flag name to its value. Values can be:
//   - string: renders --key=value
//   - bool: true renders --key, false omits the flag
//   - []string: renders --key=v for each element
//
// Single-character keys render with one dash (-n, -u=init.lua) to match the
// short options of terminal editors.
type Flags map[string]any

// ErrInvalidFlagValue is returned when a flag value has an unsupported type.
var ErrInvalidFlagValue = errors.New("invalid flag value type")

// FromConfig validates and normalizes config values into Flags.
// Accepts string, bool, numbers (rendered as strings), []string and []any.
func FromConfig(cfg map[string]any) (Flags, error) {
	if cfg == nil {
		return make(Flags), nil
	}

	result := make(Flags, len(cfg))
	for k, v := range cfg {
		switch val := v.(type) {
		case string, bool, []string:
			result[k] = val
		case int:
			result[k] = strconv.Itoa(val)
		case float64:
			result[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case []any:
			// YAML decodes lists as []any
			strs := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s list contains non-string value %T", ErrInvalidFlagValue, k, item)
				}
				strs = append(strs, s)
			}
			result[k] = strs
		default:
			return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidFlagValue, k, v)
		}
	}
	return result, nil
}

// Parse reads a space-separated list such as "new-window reuse-window=false
// user-data-dir=/tmp/cw" given on the command line.
//
//   - "key=value" → string value
//   - "key=true" / "key=false" → bool value
//   - "key" → bool true
//   - leading dashes on keys are ignored ("--new-window" == "new-window")
//   - repeated keys collect into []string
func Parse(s string) Flags {
	result := make(Flags)

	for _, part := range strings.Fields(s) {
		key, value, hasEquals := strings.Cut(part, "=")
		key = strings.TrimLeft(key, "-")
		if key == "" {
			continue
		}

		if !hasEquals {
			result[key] = true
			continue
		}

		switch strings.ToLower(value) {
		case "true":
			result[key] = true
			continue
		case "false":
			result[key] = false
			continue
		}

		switch e := result[key].(type) {
		case string:
			result[key] = []string{e, value}
		case []string:
			result[key] = append(e, value)
		default:
			result[key] = value
		}
	}
	return result
}

// Merge combines two Flags maps; keys in override replace keys in base.
func Merge(base, override Flags) Flags {
	result := make(Flags, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}

// ToArgs renders Flags as CLI arguments, sorted by key.
func ToArgs(f Flags) []string {
	if len(f) == 0 {
		return nil
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		name := dashed(k)
		switch val := f[k].(type) {
		case string:
			args = append(args, name+"="+val)
		case bool:
			if val {
				args = append(args, name)
			}
		case []string:
			for _, s := range val {
				args = append(args, name+"="+s)
			}
		}
	}
	return args
}

func dashed(key string) string {
	if len(key) == 1 {
		return "-" + key
	}
	return "--" + key
}

package clibase

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ApplyConfig loads a YAML mapping of long flag names to values and sets
// every flag that was not given on the command line. Dashes and underscores
// in keys are interchangeable.
func ApplyConfig(fs *pflag.FlagSet, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return usagef("read --config: %v", err)
	}
	var vals map[string]any
	if err := yaml.Unmarshal(b, &vals); err != nil {
		return usagef("parse --config %s: %v", path, err)
	}
	for key, v := range vals {
		f := lookup(fs, key)
		if f == nil {
			return usagef("--config %s: unknown flag %q", path, key)
		}
		if f.Changed || f.Name == "config" {
			continue
		}
		for _, s := range configValues(v) {
			if err := fs.Set(f.Name, s); err != nil {
				return usagef("--config %s: %s: %v", path, key, err)
			}
		}
	}
	return nil
}

func lookup(fs *pflag.FlagSet, key string) *pflag.Flag {
	for _, k := range []string{key, strings.ReplaceAll(key, "-", "_"), strings.ReplaceAll(key, "_", "-")} {
		if f := fs.Lookup(k); f != nil {
			return f
		}
	}
	return nil
}

func configValues(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return []string{fmt.Sprint(x)}
	}
}

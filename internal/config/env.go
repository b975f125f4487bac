package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ROMARACE_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none)
// into the process environment. Missing files are skipped; variables that are
// already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays ROMARACE_* variables onto cfg. Environment values take
// precedence over the config file; flags are applied later by the caller.
func ApplyEnv(cfg *FileConfig, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	p := &cfg.Practice
	strs := []struct {
		key    string
		target **string
	}{
		{"LANG", &p.Lang},
		{"MODE", &p.Mode},
		{"DIFFICULTY", &p.Difficulty},
		{"STYLE", &p.Style},
		{"PUNCT_SET", &p.PunctSet},
		{"TABLE", &p.Table},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FILE", &cfg.Log.File},
	}
	for _, s := range strs {
		if v, ok := lookup(EnvPrefix + s.key); ok {
			value := v
			*s.target = &value
		}
	}

	ints := []struct {
		key    string
		target **int
	}{
		{"WORDS", &p.Words},
		{"WEAK_TOP", &p.WeakTop},
		{"WEAK_WINDOW", &p.WeakWindow},
	}
	for _, s := range ints {
		v, ok := lookup(EnvPrefix + s.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, s.key, err)
		}
		*s.target = &n
	}

	floats := []struct {
		key    string
		target **float64
	}{
		{"CAPS", &p.CapsPct},
		{"PUNCT", &p.PunctPct},
		{"WEAK_FACTOR", &p.WeakFactor},
	}
	for _, s := range floats {
		v, ok := lookup(EnvPrefix + s.key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, s.key, err)
		}
		*s.target = &f
	}

	bools := []struct {
		key    string
		target **bool
	}{
		{"STRICT", &p.Strict},
		{"FOCUS_WEAK", &p.FocusWeak},
	}
	for _, s := range bools {
		v, ok := lookup(EnvPrefix + s.key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, s.key, err)
		}
		*s.target = &b
	}
	return nil
}

// Load reads the config file at path and overlays the environment.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	if err := ApplyEnv(&cfg, nil); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

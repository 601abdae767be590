package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localName turns "dir/name.ext" into "dir/name.local.ext".
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// decodeJson5 decodes a single file onto out, found is false when it does
// not exist or is empty.
func decodeJson5[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a JSON5 configuration file. A sibling file with
// ".local" inserted before the extension (dualis.local.json5 next to
// dualis.json5) is decoded on top of it, the options it sets win.
//
// os.ErrNotExist is returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	return ReadConfigOnto(name, out)
}

// ReadConfigOnto is ReadConfig starting from base. Options missing from
// both files keep their value in base, options present win even when they
// are zero. Maps and pointers in base are decoded into, not copied.
func ReadConfigOnto[T any](name string, base T) (T, error) {
	out := base
	foundDefault, err := decodeJson5(name, &out)
	if err != nil {
		return base, err
	}

	local := localName(name)
	foundLocal, err := decodeJson5(local, &out)
	if err != nil {
		return base, err
	}
	if foundLocal {
		slog.Debug("merging config with local overrides", "local", local)
	}

	if !foundDefault && !foundLocal {
		return base, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig, looking for name in the working directory
// and then in every parent directory up to the root.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}

// WithDefaults fills every zero field of config from defaults. A field
// set to its zero value counts as unset, use ReadConfigOnto where zero is
// a meaningful option.
func WithDefaults[T any](config T, defaults T) (T, error) {
	err := mergo.Merge(&config, defaults)
	return config, err
}

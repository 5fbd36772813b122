package category

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownCategory is returned when a name does not denote a category.
var ErrUnknownCategory = errors.New("unknown abstraction category")

// Config selects which categories are substituted at render time.
// It never influences classification.
type Config struct {
	enabled uint16
}

// Default mirrors the dataset default: variables and comments are abstracted.
func Default() Config {
	return Of(Var, Comment)
}

// None disables every category; rendering with it is the identity.
func None() Config { return Config{} }

// Every enables every category.
func Every() Config {
	return Of(All()...)
}

// Of builds a config with exactly the given categories enabled.
func Of(kinds ...Kind) Config {
	var c Config
	for _, k := range kinds {
		c = c.With(k)
	}
	return c
}

// ParseConfig converts a name -> bool mapping. Absent or false entries are disabled.
// Any unknown name fails the whole config.
func ParseConfig(m map[string]bool) (Config, error) {
	// ключи сортируем, чтобы ошибка была детерминированной
	keys := make([]string, 0, len(m))
	for name := range m {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var c Config
	for _, name := range keys {
		k, err := Parse(name)
		if err != nil {
			return Config{}, err
		}
		if m[name] {
			c = c.With(k)
		}
	}
	return c, nil
}

// ParseEnableList parses a comma separated list such as "VAR,COMMENT".
// The special values "all" and "none" are accepted.
func ParseEnableList(list string) (Config, error) {
	trimmed := strings.TrimSpace(list)
	switch strings.ToLower(trimmed) {
	case "", "none":
		return None(), nil
	case "all":
		return Every(), nil
	}
	var c Config
	for _, part := range strings.Split(trimmed, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := Parse(part)
		if err != nil {
			return Config{}, err
		}
		c = c.With(k)
	}
	return c, nil
}

// ParseNames is ParseEnableList for an already split list.
func ParseNames(names []string) (Config, error) {
	var c Config
	for _, name := range names {
		k, err := Parse(name)
		if err != nil {
			return Config{}, err
		}
		c = c.With(k)
	}
	return c, nil
}

// With returns a copy of c with k enabled.
func (c Config) With(k Kind) Config {
	if k.Valid() {
		c.enabled |= 1 << k
	}
	return c
}

// Without returns a copy of c with k disabled.
func (c Config) Without(k Kind) Config {
	if k.Valid() {
		c.enabled &^= 1 << k
	}
	return c
}

// Enabled reports whether occurrences of k are substituted.
func (c Config) Enabled(k Kind) bool {
	return k.Valid() && c.enabled&(1<<k) != 0
}

// Empty reports whether no category is enabled.
func (c Config) Empty() bool {
	return c.enabled == 0
}

// Map returns the config in its name -> bool form, listing every category.
func (c Config) Map() map[string]bool {
	out := make(map[string]bool, kindCount-1)
	for _, k := range All() {
		out[k.String()] = c.Enabled(k)
	}
	return out
}

// String lists the enabled categories, e.g. "VAR,COMMENT".
func (c Config) String() string {
	parts := make([]string, 0, kindCount-1)
	for _, k := range All() {
		if c.Enabled(k) {
			parts = append(parts, k.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

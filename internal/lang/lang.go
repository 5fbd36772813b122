package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Kind is the closed set of source languages the engine can classify.
type Kind uint8

const (
	Unknown Kind = iota
	C
	CPP
	Java

	kindCount
)

func (k Kind) String() string {
	switch k {
	case C:
		return "c"
	case CPP:
		return "cpp"
	case Java:
		return "java"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("lang.Kind(%s)", k.String())
}

// All returns every supported language.
func All() []Kind {
	return []Kind{C, CPP, Java}
}

// Parse resolves a language tag as it appears in datasets and on the command line.
func Parse(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "c":
		return C, nil
	case "cpp", "c++", "cxx", "cc":
		return CPP, nil
	case "java":
		return Java, nil
	default:
		return Unknown, fmt.Errorf("unsupported language %q (expected: c|cpp|java)", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == Unknown || k >= kindCount {
		return nil, fmt.Errorf("cannot marshal language %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

var extensions = map[string]Kind{
	".c":    C,
	".cc":   CPP,
	".cpp":  CPP,
	".cxx":  CPP,
	".c++":  CPP,
	".hpp":  CPP,
	".hh":   CPP,
	".hxx":  CPP,
	".ipp":  CPP,
	".java": Java,
}

// Extensions lists the file extensions mapped to k, sorted.
func Extensions(k Kind) []string {
	var out []string
	for ext, kind := range extensions {
		if kind == k {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// FromPath guesses the language from a file extension.
// ".h" is ambiguous and reported as Unknown; use Detect to settle it.
func FromPath(path string) Kind {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Policy returns the classification policy for the language, or nil for Unknown.
func (k Kind) Policy() Policy {
	switch k {
	case C, CPP:
		return clike{lang: k}
	case Java:
		return java{}
	default:
		return nil
	}
}

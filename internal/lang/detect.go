package lang

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"codeabs/internal/source"
)

// Hint is a small piece of evidence that a header is written in a particular language.
type Hint struct {
	Lang   Kind
	Score  int
	Reason string
	Span   source.Span
}

// Evidence aggregates hints collected while scanning a file.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{hints: make([]Hint, 0, 16)}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

type keywordSignal struct {
	Lang   Kind
	Score  int
	Reason string
}

var keywordSignals = map[string]keywordSignal{
	"class":     {Lang: CPP, Score: 3, Reason: "c++ keyword `class`"},
	"namespace": {Lang: CPP, Score: 6, Reason: "c++ keyword `namespace`"},
	"template":  {Lang: CPP, Score: 6, Reason: "c++ keyword `template`"},
	"typename":  {Lang: CPP, Score: 5, Reason: "c++ keyword `typename`"},
	"virtual":   {Lang: CPP, Score: 5, Reason: "c++ keyword `virtual`"},
	"nullptr":   {Lang: CPP, Score: 5, Reason: "c++ literal `nullptr`"},
	"constexpr": {Lang: CPP, Score: 5, Reason: "c++ keyword `constexpr`"},
	"operator":  {Lang: CPP, Score: 4, Reason: "c++ keyword `operator`"},
	"public":    {Lang: CPP, Score: 2, Reason: "c++ access specifier `public`"},
	"private":   {Lang: CPP, Score: 2, Reason: "c++ access specifier `private`"},
	"protected": {Lang: CPP, Score: 2, Reason: "c++ access specifier `protected`"},
	"using":     {Lang: CPP, Score: 2, Reason: "c++ keyword `using`"},

	"_Bool":    {Lang: C, Score: 3, Reason: "c keyword `_Bool`"},
	"restrict": {Lang: C, Score: 3, Reason: "c qualifier `restrict`"},
	"typedef":  {Lang: C, Score: 1, Reason: "c keyword `typedef`"},
	"struct":   {Lang: C, Score: 1, Reason: "c keyword `struct`"},
}

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Lang       Kind
	Score      int
	TotalScore int
	Confidence float64
}

// Classify picks the dominant language among the hints. Hints for other kinds are ignored.
func (e *Evidence) Classify() Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Lang: Unknown}
	}
	var scores [kindCount]int
	total := 0
	for _, h := range e.hints {
		if h.Score <= 0 || h.Lang <= Unknown || h.Lang >= kindCount {
			continue
		}
		scores[h.Lang] += h.Score
		total += h.Score
	}
	best, bestScore := Unknown, 0
	for k := C; k < kindCount; k++ {
		if scores[k] > bestScore {
			best, bestScore = k, scores[k]
		}
	}
	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}
	return Classification{Lang: best, Score: bestScore, TotalScore: total, Confidence: conf}
}

func (h Hint) String() string {
	return fmt.Sprintf("%s %+d at %s", h.Reason, h.Score, h.Span)
}

// Detect resolves the language of path. Unambiguous extensions win; ".h" headers
// are scored for C++ evidence and fall back to C.
func Detect(path string, src []byte) Kind {
	k, _ := DetectEvidence(path, src)
	return k
}

// DetectEvidence is Detect that also returns the evidence a ".h" header was
// judged on. Evidence is nil when the extension alone decided.
func DetectEvidence(path string, src []byte) (Kind, *Evidence) {
	if k := FromPath(path); k != Unknown {
		return k, nil
	}
	if strings.ToLower(filepath.Ext(path)) != ".h" {
		return Unknown, nil
	}
	e := NewEvidence()
	Scan(e, src)
	if c := e.Classify(); c.Lang == CPP {
		return CPP, e
	}
	return C, e
}

// Summary renders the hints on one line, e.g. for a debug trace.
func (e *Evidence) Summary() string {
	c := e.Classify()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d/%d", c.Lang, c.Score, c.TotalScore)
	for _, h := range e.Hints() {
		sb.WriteString("; ")
		sb.WriteString(h.String())
	}
	return sb.String()
}

// Scan records keyword and token-pattern evidence for src. Comments and
// string or char literals are skipped.
func Scan(e *Evidence, src []byte) {
	if e == nil {
		return
	}
	n := len(src)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && (src[i] != '*' || src[i+1] != '/') {
				i++
			}
			i += 2
		case c == '"' || c == '\'':
			i = skipQuoted(src, i)
		case c == ':' && i+1 < n && src[i+1] == ':':
			e.Add(Hint{Lang: CPP, Score: 4, Reason: "c++ scope operator `::`", Span: span(i, i+2)})
			i += 2
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			if sig, ok := keywordSignals[string(src[start:i])]; ok {
				e.Add(Hint{Lang: sig.Lang, Score: sig.Score, Reason: sig.Reason, Span: span(start, i)})
			}
		default:
			i++
		}
	}
}

func skipQuoted(src []byte, i int) int {
	quote := src[i]
	i++
	for i < len(src) && src[i] != quote && src[i] != '\n' {
		if src[i] == '\\' {
			i++
		}
		i++
	}
	return i + 1
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("hint start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("hint end overflow: %w", err))
	}
	return source.Span{Start: s, End: e}
}

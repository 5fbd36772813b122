package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"codeabs/internal/abstract"
	"codeabs/internal/lang"
)

var ErrNoLanguage = errors.New("record has neither language nor a known file_path extension")

// Slot names one function body of a record and the fields its abstraction goes to.
type Slot struct {
	Source string
	Text   string
	Table  string
}

var (
	SlotBefore = Slot{Source: "func_before", Text: "abstract_func_before", Table: "abstract_symbol_table_before"}
	SlotFunc   = Slot{Source: "func", Text: "abstract_func", Table: "abstract_symbol_table"}
	SlotAfter  = Slot{Source: "func_after", Text: "abstract_func_after", Table: "abstract_symbol_table_after"}
)

// Slots lists every slot in output order.
func Slots() []Slot {
	return []Slot{SlotBefore, SlotFunc, SlotAfter}
}

// Record is one dataset object. Unknown fields are kept verbatim and in input
// order; fields added by the abstraction go after them.
type Record struct {
	Index  int
	fields map[string]json.RawMessage
	order  []string
}

func newRecord(index int, raw json.RawMessage) (*Record, error) {
	r := &Record{Index: index, fields: make(map[string]json.RawMessage)}
	if err := r.decode(raw); err != nil {
		return nil, fmt.Errorf("record %d: %w", index, err)
	}
	return r, nil
}

// decode walks the object token by token; a repeated key keeps its first
// position and its last value, as encoding/json would.
func (r *Record) decode(raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected a field name, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		r.set(key, value)
	}
	_, err = dec.Token()
	return err
}

func (r *Record) set(key string, value json.RawMessage) {
	if _, ok := r.fields[key]; !ok {
		r.order = append(r.order, key)
	}
	r.fields[key] = value
}

// Fields lists the field names in output order.
func (r *Record) Fields() []string {
	return append([]string(nil), r.order...)
}

// Name identifies the record in diagnostics: "record#N", with the CVE id when present.
func (r *Record) Name() string {
	name := "record#" + strconv.Itoa(r.Index)
	if cve := r.Field("cve_id"); cve != "" {
		name += "(" + cve + ")"
	}
	return name
}

// UnitName identifies one slot of the record.
func (r *Record) UnitName(s Slot) string {
	return r.Name() + "." + s.Source
}

// Field returns a string field, "" when absent, null or not a string.
func (r *Record) Field(field string) string {
	raw, ok := r.fields[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Has reports a present, non-null field.
func (r *Record) Has(field string) bool {
	raw, ok := r.fields[field]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Language resolves the record language from "language", or from file_path
// with src settling ambiguous headers.
func (r *Record) Language(src []byte) (lang.Kind, error) {
	if name := r.Field("language"); name != "" {
		return lang.Parse(name)
	}
	if path := r.Field("file_path"); path != "" {
		if k := lang.Detect(path, src); k != lang.Unknown {
			return k, nil
		}
	}
	return lang.Unknown, ErrNoLanguage
}

// Source returns the function body of slot s; ok is false when it is absent or null.
func (r *Record) Source(s Slot) (string, bool) {
	if !r.Has(s.Source) {
		return "", false
	}
	return r.Field(s.Source), true
}

// Present lists the slots with a function body.
func (r *Record) Present() []Slot {
	var out []Slot
	for _, s := range Slots() {
		if r.Has(s.Source) {
			out = append(out, s)
		}
	}
	return out
}

// SetAbstraction stores the rendered text and the symbol table of slot s.
func (r *Record) SetAbstraction(s Slot, text string, unit *abstract.Unit) error {
	encodedText, err := json.Marshal(text)
	if err != nil {
		return err
	}
	table, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("%s: %w", r.UnitName(s), err)
	}
	r.set(s.Text, encodedText)
	r.set(s.Table, table)
	return nil
}

// ClearAbstraction writes null into the output fields of slot s.
func (r *Record) ClearAbstraction(s Slot) {
	r.set(s.Text, json.RawMessage("null"))
	r.set(s.Table, json.RawMessage("null"))
}

// Unit decodes a stored symbol table; ok is false when slot s has none.
func (r *Record) Unit(s Slot) (*abstract.Unit, bool, error) {
	if !r.Has(s.Table) {
		return nil, false, nil
	}
	var unit abstract.Unit
	if err := json.Unmarshal(r.fields[s.Table], &unit); err != nil {
		return nil, true, fmt.Errorf("%s: %s: %w", r.UnitName(s), s.Table, err)
	}
	return &unit, true, nil
}

// MarshalJSON implements json.Marshaler, writing fields in Fields order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(r.fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package abstract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"codeabs/internal/category"
)

// Wire layout shared by the JSON and msgpack codecs:
//
//	{"position_map":   {"<line>": [[column, id, "CAT", "text", continuation], ...]},
//	 "abstract_table": {"CAT": {"key": "SYMBOL", ...}, ...}}
//
// It is the symbol-table layout of MegaVul-style datasets. Every category is
// written to abstract_table, empty ones included, and keys keep first-seen order.
const (
	fieldPositionMap   = "position_map"
	fieldAbstractTable = "abstract_table"
	occurrenceFields   = 5
)

var (
	_ json.Marshaler         = (*Unit)(nil)
	_ json.Unmarshaler       = (*Unit)(nil)
	_ msgpack.CustomEncoder  = (*Unit)(nil)
	_ msgpack.CustomDecoder  = (*Unit)(nil)
	errMalformedOccurrence   = errors.New("occurrence must be [column, id, category, text, continuation]")
	errMalformedPositionLine = errors.New("position_map key is not a line number")
)

// MarshalJSON implements json.Marshaler.
func (u *Unit) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + fieldPositionMap + `":{`)
	for i, line := range u.Index.Lines() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + strconv.FormatUint(uint64(line), 10) + `":[`)
		for j, occ := range u.Index.On(line) {
			if j > 0 {
				buf.WriteByte(',')
			}
			row, err := json.Marshal([]any{occ.Column, occ.ID, occ.Category.String(), occ.Text, occ.Continuation})
			if err != nil {
				return nil, err
			}
			buf.Write(row)
		}
		buf.WriteByte(']')
	}
	buf.WriteString(`},"` + fieldAbstractTable + `":{`)
	for i, cat := range category.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + cat.String() + `":{`)
		for j, e := range u.Table.Entries(cat) {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONPair(&buf, e.Key, e.Symbol); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSONPair(buf *bytes.Buffer, key, value string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. The decoded index is rebuilt
// through Record, so overlapping occurrences are rejected.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var wire struct {
		PositionMap   map[string][]json.RawMessage `json:"position_map"`
		AbstractTable json.RawMessage              `json:"abstract_table"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	index := NewIndex()
	for key, rows := range wire.PositionMap {
		line, err := parseLine(key)
		if err != nil {
			return err
		}
		for _, raw := range rows {
			occ, err := decodeJSONOccurrence(raw)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			occ.Line = line
			if err := index.Record(occ); err != nil {
				return err
			}
		}
	}
	table := NewTable()
	if len(wire.AbstractTable) > 0 && !bytes.Equal(wire.AbstractTable, []byte("null")) {
		if err := decodeJSONTable(wire.AbstractTable, table); err != nil {
			return err
		}
	}
	u.Index, u.Table = index, table
	return nil
}

func decodeJSONOccurrence(raw json.RawMessage) (Occurrence, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Occurrence{}, err
	}
	if len(fields) != occurrenceFields {
		return Occurrence{}, errMalformedOccurrence
	}
	var (
		occ     Occurrence
		catName string
	)
	for i, dst := range []any{&occ.Column, &occ.ID, &catName, &occ.Text, &occ.Continuation} {
		if err := json.Unmarshal(fields[i], dst); err != nil {
			return Occurrence{}, fmt.Errorf("%w: field %d: %w", errMalformedOccurrence, i, err)
		}
	}
	cat, err := category.Parse(catName)
	if err != nil {
		return Occurrence{}, err
	}
	occ.Category = cat
	return occ, nil
}

// decodeJSONTable walks the abstract_table object token by token to keep key order.
func decodeJSONTable(raw json.RawMessage, table *Table) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		name, err := readString(dec)
		if err != nil {
			return err
		}
		cat, err := category.Parse(name)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			key, err := readString(dec)
			if err != nil {
				return err
			}
			sym, err := readString(dec)
			if err != nil {
				return err
			}
			table.Put(cat, key, sym)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("abstract_table: expected %q, got %v", want, tok)
	}
	return nil
}

func readString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("abstract_table: expected string, got %v", tok)
	}
	return s, nil
}

func parseLine(key string) (uint32, error) {
	line, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMalformedPositionLine, key)
	}
	return uint32(line), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder with the same layout as MarshalJSON.
func (u *Unit) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(2); err != nil {
		return err
	}
	if err := enc.EncodeString(fieldPositionMap); err != nil {
		return err
	}
	lines := u.Index.Lines()
	if err := enc.EncodeMapLen(len(lines)); err != nil {
		return err
	}
	for _, line := range lines {
		if err := enc.EncodeString(strconv.FormatUint(uint64(line), 10)); err != nil {
			return err
		}
		occs := u.Index.On(line)
		if err := enc.EncodeArrayLen(len(occs)); err != nil {
			return err
		}
		for _, occ := range occs {
			if err := encodeMsgpackOccurrence(enc, occ); err != nil {
				return err
			}
		}
	}

	if err := enc.EncodeString(fieldAbstractTable); err != nil {
		return err
	}
	cats := category.All()
	if err := enc.EncodeMapLen(len(cats)); err != nil {
		return err
	}
	for _, cat := range cats {
		if err := enc.EncodeString(cat.String()); err != nil {
			return err
		}
		entries := u.Table.Entries(cat)
		if err := enc.EncodeMapLen(len(entries)); err != nil {
			return err
		}
		for _, e := range entries {
			if err := enc.EncodeString(e.Key); err != nil {
				return err
			}
			if err := enc.EncodeString(e.Symbol); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeMsgpackOccurrence(enc *msgpack.Encoder, occ Occurrence) error {
	if err := enc.EncodeArrayLen(occurrenceFields); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(occ.Column)); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(occ.ID)); err != nil {
		return err
	}
	if err := enc.EncodeString(occ.Category.String()); err != nil {
		return err
	}
	if err := enc.EncodeString(occ.Text); err != nil {
		return err
	}
	return enc.EncodeBool(occ.Continuation)
}

// DecodeMsgpack implements msgpack.CustomDecoder. Unknown top-level keys are skipped.
func (u *Unit) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	index, table := NewIndex(), NewTable()
	for range max(n, 0) {
		field, err := dec.DecodeString()
		if err != nil {
			return err
		}
		switch field {
		case fieldPositionMap:
			err = decodeMsgpackPositions(dec, index)
		case fieldAbstractTable:
			err = decodeMsgpackTable(dec, table)
		default:
			err = dec.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	u.Index, u.Table = index, table
	return nil
}

func decodeMsgpackPositions(dec *msgpack.Decoder, index *Index) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for range max(n, 0) {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		line, err := parseLine(key)
		if err != nil {
			return err
		}
		count, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		for range max(count, 0) {
			occ, err := decodeMsgpackOccurrence(dec)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			occ.Line = line
			if err := index.Record(occ); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeMsgpackOccurrence(dec *msgpack.Decoder) (Occurrence, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return Occurrence{}, err
	}
	if n != occurrenceFields {
		return Occurrence{}, errMalformedOccurrence
	}
	var occ Occurrence
	if occ.Column, err = dec.DecodeUint32(); err != nil {
		return Occurrence{}, err
	}
	if occ.ID, err = dec.DecodeInt(); err != nil {
		return Occurrence{}, err
	}
	name, err := dec.DecodeString()
	if err != nil {
		return Occurrence{}, err
	}
	if occ.Category, err = category.Parse(name); err != nil {
		return Occurrence{}, err
	}
	if occ.Text, err = dec.DecodeString(); err != nil {
		return Occurrence{}, err
	}
	if occ.Continuation, err = dec.DecodeBool(); err != nil {
		return Occurrence{}, err
	}
	return occ, nil
}

func decodeMsgpackTable(dec *msgpack.Decoder, table *Table) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for range max(n, 0) {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		cat, err := category.Parse(name)
		if err != nil {
			return err
		}
		entries, err := dec.DecodeMapLen()
		if err != nil {
			return err
		}
		for range max(entries, 0) {
			key, err := dec.DecodeString()
			if err != nil {
				return err
			}
			sym, err := dec.DecodeString()
			if err != nil {
				return err
			}
			table.Put(cat, key, sym)
		}
	}
	return nil
}

package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Layout is the on-disk shape of a dataset.
type Layout uint8

const (
	LayoutArray Layout = iota // one JSON array
	LayoutLines               // one object per line
)

func (l Layout) String() string {
	if l == LayoutLines {
		return "jsonl"
	}
	return "json"
}

// Dataset is a decoded file.
type Dataset struct {
	Layout  Layout
	Records []*Record
}

// Read decodes a dataset, detecting array versus JSON-lines layout from the first byte.
func Read(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{}, nil
		}
		return nil, err
	}
	dec := json.NewDecoder(br)
	ds := &Dataset{Layout: LayoutLines}
	if first == '[' {
		ds.Layout = LayoutArray
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(ds.Records), err)
		}
		rec, err := newRecord(len(ds.Records), raw)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	if ds.Layout == LayoutArray {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("unterminated array: %w", err)
		}
	}
	return ds, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// ReadFile opens and decodes path.
func ReadFile(path string) (*Dataset, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Write encodes ds in its layout.
func (ds *Dataset) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if ds.Layout == LayoutArray {
		if _, err := bw.WriteString("[\n"); err != nil {
			return err
		}
	}
	for i, rec := range ds.Records {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if ds.Layout == LayoutArray && i > 0 {
			if _, err := bw.WriteString(",\n"); err != nil {
				return err
			}
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if ds.Layout == LayoutLines {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	if ds.Layout == LayoutArray {
		if _, err := bw.WriteString("\n]\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes ds atomically through a temporary file in the target directory.
func (ds *Dataset) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := ds.Write(&buf); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// LayoutForPath picks JSON lines for .jsonl/.ndjson paths.
func LayoutForPath(path string) Layout {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return LayoutLines
	}
	return LayoutArray
}

// Units counts the function bodies across all records.
func (ds *Dataset) Units() int {
	n := 0
	for _, rec := range ds.Records {
		n += len(rec.Present())
	}
	return n
}

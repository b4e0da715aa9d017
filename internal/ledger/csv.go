// Package ledger reads, enriches and writes the flat ownership ledger:
// one row per physically-owned card copy.
package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Row is one ledger line. Column values are keyed by header name;
// unknown columns pass through untouched.
type Row struct {
	fields map[string]string
}

func (r *Row) Get(col string) string {
	return r.fields[col]
}

func (r *Row) Set(col, val string) {
	r.fields[col] = val
}

// Notes collects the row's note columns, skipping empties.
func (r *Row) Notes() []string {
	var notes []string
	for _, col := range []string{"note1", "note2"} {
		if v := strings.TrimSpace(r.fields[col]); v != "" {
			notes = append(notes, v)
		}
	}
	return notes
}

// File is a fully-read ledger. Row order is preserved through
// enrichment and write-out.
type File struct {
	Header []string
	Rows   []*Row
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Read loads a ledger file. Input is decoded to UTF-8 first: a BOM is
// stripped, and non-UTF-8 content falls back to Windows-1252 (ledgers
// exported from spreadsheet tools often carry that charset).
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	data = bytes.TrimPrefix(data, bomUTF8)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode ledger charset: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ledger %s: empty file", path)
		}
		return nil, fmt.Errorf("ledger %s: read header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	f := &File{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ledger %s: read row: %w", path, err)
		}
		row := &Row{fields: make(map[string]string, len(header))}
		for i, col := range header {
			if i < len(rec) {
				row.fields[col] = rec[i]
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// AddColumn appends a new output column to the header if not present.
func (f *File) AddColumn(col string) {
	for _, h := range f.Header {
		if h == col {
			return
		}
	}
	f.Header = append(f.Header, col)
}

// Write saves the ledger to a new file; the input is never rewritten in
// place.
func (f *File) Write(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	w := csv.NewWriter(out)
	if err := w.Write(f.Header); err != nil {
		out.Close()
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(f.Header))
	for _, row := range f.Rows {
		for i, col := range f.Header {
			rec[i] = row.fields[col]
		}
		if err := w.Write(rec); err != nil {
			out.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	return out.Close()
}

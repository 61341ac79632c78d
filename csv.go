package visitfacts

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"gopkg.in/guregu/null.v3"
)

var errNoColumns = errors.New("no columns to parse from input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naTokens are read as null cells.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

func cell(s string) null.String {
	if naTokens[s] {
		return null.String{}
	}
	return null.StringFrom(s)
}

// ReadCSV parses comma-separated text with a header row into a table.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	rdr := csv.NewReader(br)
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, errNoColumns
	} else if err != nil {
		return nil, err
	}

	t := NewTable(name, header)
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if len(record) > len(header) {
			line, _ := rdr.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record))
		}

		row := make(Row, len(record))
		for i, v := range record {
			row[i] = cell(v)
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WriteCSV writes the header and every row. Null cells become empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return err
	}

	record := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, c := range r {
			if c.Valid {
				record[i] = c.String
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var ErrParseFailure = errors.New("failed to parse sheet")

// ParseError aborts an import. Line is 1-based when known.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", ErrParseFailure, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrParseFailure, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailure, e.Err}
}

// Row maps a header name to its raw cell.
type Row map[string]string

// Sheet is a parsed spreadsheet export in file order.
type Sheet struct {
	Headers []string
	Rows    []Row
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a comma separated export whose first record is the header
// line. Quoted cells may contain commas and newlines, rows may be shorter or
// longer than the header, and lines made only of whitespace are skipped.
// Empty input yields an empty sheet. Quoting is strict: a quote that is never
// closed, or a bare quote inside an unquoted cell, is a ParseError.
func ParseCSV(r io.Reader) (Sheet, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Sheet{}, nil
	}
	if err != nil {
		return Sheet{}, wrapCSVError(err)
	}

	for i, header := range headers {
		if !utf8.ValidString(header) {
			return Sheet{}, &ParseError{Line: 1, Err: errors.New("header is not valid UTF-8")}
		}
		headers[i] = strings.TrimSpace(header)
	}

	sheet := Sheet{Headers: headers}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sheet{}, wrapCSVError(err)
		}

		if isWhitespaceRecord(record) {
			continue
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			if _, seen := row[header]; seen {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if !utf8.ValidString(value) {
				line, _ := reader.FieldPos(i)
				return Sheet{}, &ParseError{
					Line: line,
					Err:  fmt.Errorf("column %q is not valid UTF-8", header),
				}
			}
			row[header] = value
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

func wrapCSVError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}

func isWhitespaceRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

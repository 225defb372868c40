// Package csvexport renders spreadsheet-friendly CSV files for the back office.
//
// The output starts with a UTF-8 byte order mark so Excel detects the encoding,
// and records are separated by a single "\n" without a trailing newline.
package csvexport

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"sakkanal_backend/platform/apperr"
)

// BOM is the UTF-8 byte order mark prepended to every export.
const BOM = "\ufeff"

// ContentType is the MIME type of the exports.
const ContentType = "text/csv; charset=utf-8"

// MsgNoData is returned when there is nothing to export.
const MsgNoData = "Aucune donnée à exporter"

// Field is one named cell of a row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered list of cells. The first row defines the header order.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Headers returns the keys of the row in order.
func (r Row) Headers() []string {
	headers := make([]string, len(r))
	for i, f := range r {
		headers[i] = f.Key
	}
	return headers
}

// Write renders rows as CSV. Missing cells and nil values are empty.
func Write(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return apperr.Validation(MsgNoData)
	}

	headers := rows[0].Headers()
	lines := make([]string, 0, len(rows)+1)

	escaped := make([]string, len(headers))
	for i, h := range headers {
		escaped[i] = escape(h)
	}
	lines = append(lines, strings.Join(escaped, ","))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			value, _ := row.Get(h)
			cell, err := Cell(value)
			if err != nil {
				return fmt.Errorf("render %q: %w", h, err)
			}
			cells[i] = cell
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	if _, err := io.WriteString(w, BOM+strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Cell renders a single value. Objects, slices and raw JSON are JSON-encoded and always quoted.
func Cell(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return escape(v), nil
	case json.RawMessage:
		if len(v) == 0 || string(v) == "null" {
			return "", nil
		}
		return quote(string(v)), nil
	case time.Time:
		return escape(v.Format(time.RFC3339)), nil
	case fmt.Stringer:
		return escape(v.String()), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case bool:
		return strconv.FormatBool(v), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", nil
		}
		return Cell(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.IsNil() {
			return "", nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return quote(string(data)), nil
	default:
		return escape(fmt.Sprint(value)), nil
	}
}

func escape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return quote(s)
	}
	return s
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Filename builds "<name>_<YYYY-MM-DD>.csv".
func Filename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", name, now.Format("2006-01-02"))
}

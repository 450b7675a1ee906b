package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// TimeField is the field name the ingest service reads event timestamps from.
const TimeField = "_time"

// MarshalFunc turns a value into its JSON encoding.
type MarshalFunc func(v any) ([]byte, error)

// ItemKind discriminates the Item variants.
type ItemKind int

const (
	// ItemJSON is a value encoded with a MarshalFunc.
	ItemJSON ItemKind = iota

	// ItemCSV is an ordered list of CSV fields.
	ItemCSV

	// ItemCSVLine is a pre-formatted CSV row.
	ItemCSVLine
)

// String returns a human-readable name for the kind.
func (k ItemKind) String() string {
	switch k {
	case ItemJSON:
		return "json"
	case ItemCSV:
		return "csv"
	case ItemCSVLine:
		return "csv-line"
	default:
		return "unknown"
	}
}

// Item is a single event in one of the supported wire representations.
// The set of variants is closed; construct items with JSONItem, JSONItemWith,
// CSVItem, CSVLineItem or InvalidItem.
type Item struct {
	kind    ItemKind
	value   any
	marshal MarshalFunc
	fields  []string
	line    string
	err     error
}

// JSONItem wraps a value that is serialized as a JSON object.
func JSONItem(v any) Item {
	return Item{kind: ItemJSON, value: v}
}

// JSONItemWith wraps a value that is serialized with its own marshal func
// instead of the one passed to Serialize.
func JSONItemWith(v any, marshal MarshalFunc) Item {
	return Item{kind: ItemJSON, value: v, marshal: marshal}
}

// CSVItem wraps an ordered list of fields serialized as one CSV row.
func CSVItem(fields []string) Item {
	return Item{kind: ItemCSV, fields: fields}
}

// CSVLineItem wraps a row that is already CSV formatted.
func CSVLineItem(line string) Item {
	return Item{kind: ItemCSVLine, line: line}
}

// InvalidItem is an item of the given kind that fails to serialize with err.
func InvalidItem(kind ItemKind, err error) Item {
	return Item{kind: kind, err: err}
}

// Kind returns the variant of the item.
func (i Item) Kind() ItemKind {
	return i.kind
}

// SupportedTypes returns the content types the item can be sent as.
// The first entry is the preferred type.
func (i Item) SupportedTypes() []ContentType {
	if i.kind == ItemJSON {
		return []ContentType{ContentTypeJSON, ContentTypeNDJSON}
	}
	return []ContentType{ContentTypeCSV}
}

// Supports reports whether the item can be sent as content type c.
func (i Item) Supports(c ContentType) bool {
	for _, t := range i.SupportedTypes() {
		if t == c {
			return true
		}
	}
	return false
}

// Serialize returns the wire form of the item. A non-empty stamp is attached
// as the _time field of a JSON object or as a trailing CSV column.
func (i Item) Serialize(marshal MarshalFunc, stamp string) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	switch i.kind {
	case ItemJSON:
		if i.marshal != nil {
			marshal = i.marshal
		}
		return serializeJSON(marshal, i.value, stamp)
	case ItemCSV:
		row, err := encodeCSVRow(i.fields)
		if err != nil {
			return "", err
		}
		return appendCSVStamp(row, stamp), nil
	case ItemCSVLine:
		return appendCSVStamp(i.line, stamp), nil
	default:
		return "", fmt.Errorf("serialize item: unknown kind %d", i.kind)
	}
}

func serializeJSON(marshal MarshalFunc, v any, stamp string) (string, error) {
	if marshal == nil {
		return "", fmt.Errorf("serialize json item: nil marshal func")
	}
	b, err := marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	b = bytes.TrimSpace(b)
	if stamp == "" {
		return string(b), nil
	}

	// Splice the timestamp in as the last member of the object.
	if len(b) < 2 || b[0] != '{' || b[len(b)-1] != '}' {
		return "", ErrNotJSONObject
	}
	body := bytes.TrimSpace(b[1 : len(b)-1])
	var sb strings.Builder
	sb.Grow(len(b) + len(stamp) + 16)
	sb.WriteByte('{')
	if len(body) > 0 {
		sb.Write(body)
		sb.WriteByte(',')
	}
	fmt.Fprintf(&sb, "%q:%q}", TimeField, stamp)
	return sb.String(), nil
}

func encodeCSVRow(fields []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return "", fmt.Errorf("encode csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode csv row: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func appendCSVStamp(row, stamp string) string {
	if stamp == "" {
		return row
	}
	return row + "," + stamp
}

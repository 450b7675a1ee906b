package domain

import "fmt"

// ContentType is the MIME type of an ingest payload.
type ContentType string

const (
	// ContentTypeJSON marks a payload formatted as a JSON array.
	ContentTypeJSON ContentType = "application/json"

	// ContentTypeNDJSON marks a payload of newline-delimited JSON objects.
	ContentTypeNDJSON ContentType = "application/x-ndjson"

	// ContentTypeCSV marks a payload of a CSV header followed by rows.
	ContentTypeCSV ContentType = "text/csv"
)

// Valid reports whether c is one of the supported content types.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeJSON, ContentTypeNDJSON, ContentTypeCSV:
		return true
	default:
		return false
	}
}

// String returns the MIME type.
func (c ContentType) String() string {
	return string(c)
}

// ContentEncoding is the encoding applied to the payload body.
type ContentEncoding string

const (
	// EncodingIdentity sends the body as-is, without a Content-Encoding header.
	EncodingIdentity ContentEncoding = "identity"

	// EncodingGzip gzip-compresses the body.
	EncodingGzip ContentEncoding = "gzip"
)

// Valid reports whether e is a supported encoding.
func (e ContentEncoding) Valid() bool {
	return e == EncodingIdentity || e == EncodingGzip
}

// String returns the encoding name.
func (e ContentEncoding) String() string {
	return string(e)
}

// JSONFormat selects how JSON pools lay out the payload.
type JSONFormat string

const (
	// FormatJSON wraps all items in a single JSON array.
	FormatJSON JSONFormat = "json"

	// FormatNDJSON emits one JSON object per line.
	FormatNDJSON JSONFormat = "ndjson"
)

// ContentType returns the content type a payload in this format is sent as.
func (f JSONFormat) ContentType() ContentType {
	if f == FormatNDJSON {
		return ContentTypeNDJSON
	}
	return ContentTypeJSON
}

// Valid reports whether f is a supported format.
func (f JSONFormat) Valid() bool {
	return f == FormatJSON || f == FormatNDJSON
}

// ParseContentType maps a short format name (json, ndjson, csv) or a MIME
// type to a ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch s {
	case "json", string(ContentTypeJSON):
		return ContentTypeJSON, nil
	case "ndjson", string(ContentTypeNDJSON):
		return ContentTypeNDJSON, nil
	case "csv", string(ContentTypeCSV):
		return ContentTypeCSV, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// ParseContentEncoding maps an encoding name to a ContentEncoding.
func ParseContentEncoding(s string) (ContentEncoding, error) {
	switch s {
	case "gzip":
		return EncodingGzip, nil
	case "identity", "none":
		return EncodingIdentity, nil
	default:
		return "", fmt.Errorf("unknown content encoding %q", s)
	}
}

package domain

import "strings"

// Payload is the single assembled body sent in one ingest request.
type Payload struct {
	Body        string
	ContentType ContentType
	Encoding    ContentEncoding

	// Items is the number of events the body carries.
	Items int
}

// CSVHeader returns the header line for a CSV payload. When the client
// stamps its own timestamps the _time column is appended.
func CSVHeader(header string, stamped bool) string {
	if stamped {
		return header + "," + TimeField
	}
	return header
}

// Assemble combines serialized items into one body of the given content type.
// Item order is preserved. The header is only used for CSV.
func Assemble(contentType ContentType, header string, items []string) string {
	switch contentType {
	case ContentTypeNDJSON:
		return strings.Join(items, "\n")
	case ContentTypeCSV:
		return header + "\n" + strings.Join(items, "\n")
	default:
		return "[" + strings.Join(items, ",") + "]"
	}
}

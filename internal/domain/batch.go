package domain

// Batch is a drained snapshot of serialized items ready to be sent together.
type Batch struct {
	// Items holds the serialized events in enqueue order
	Items []string

	// TotalBytes is the sum of all serialized item lengths
	TotalBytes int
}

// NewBatch creates a batch from drained items.
func NewBatch(items []string) *Batch {
	b := &Batch{Items: items}
	for _, it := range items {
		b.TotalBytes += len(it)
	}
	return b
}

// Size returns the number of items in the batch.
func (b *Batch) Size() int {
	return len(b.Items)
}

// Empty returns true if the batch has no items.
func (b *Batch) Empty() bool {
	return len(b.Items) == 0
}

// Payload assembles the batch into a request body.
func (b *Batch) Payload(contentType ContentType, encoding ContentEncoding, header string) Payload {
	return Payload{
		Body:        Assemble(contentType, header, b.Items),
		ContentType: contentType,
		Encoding:    encoding,
		Items:       len(b.Items),
	}
}

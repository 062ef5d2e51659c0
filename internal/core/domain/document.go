package domain

import "time"

// Document represents an ingested legal document.
// Content is already-extracted plain text; OCR and PDF/DOCX extraction
// happen upstream of this engine.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title, usually the source file name.
	Title string

	// URI is the original location (file path, URL, etc).
	URI string

	// Content is the full plain-text content before chunking.
	Content string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time
}

// Chunk represents a retrievable passage within a document.
// Chunks are immutable once created and shared read-only across indices.
type Chunk struct {
	// ID is the stable identifier for the chunk. It is derived from the
	// source document and ordinal, so re-chunking the same document
	// yields the same IDs.
	ID string

	// Document is the title of the source document.
	Document string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// TotalChunks is the number of chunks the source document was
	// split into.
	TotalChunks int
}

package domain

import "io"

// Renderer defines the interface for writing a converted collection.
type Renderer interface {
	// Render writes the collection in the renderer's format.
	Render(collection *PostmanCollection, output io.Writer) error

	// Format returns the output format name (e.g., "postman", "pdf").
	Format() string
}

package renderers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const (
	postmanFormat = "postman"

	// PostmanExtension replaces a trailing .json on converted file names.
	PostmanExtension = ".postman_collection.json"
)

// PostmanRenderer writes the collection as Postman v2.1.0 JSON.
type PostmanRenderer struct{}

// NewPostmanRenderer creates a new Postman JSON renderer.
func NewPostmanRenderer() *PostmanRenderer {
	return &PostmanRenderer{}
}

// Format returns the output format name.
func (r *PostmanRenderer) Format() string {
	return postmanFormat
}

// Render writes the collection as JSON indented with two spaces.
func (r *PostmanRenderer) Render(collection *domain.PostmanCollection, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(collection); err != nil {
		return fmt.Errorf("failed to encode Postman collection: %w", err)
	}

	return nil
}

// PostmanFileName derives the converted file name from a source file name.
// A trailing .json is replaced; any other name gets the extension appended.
func PostmanFileName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) {
		base = "collection"
	}

	return strings.TrimSuffix(base, ".json") + PostmanExtension
}

package renderers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const docxFormat = "docx"

// DocxRenderer documents a collection as a Word (DOCX) file.
type DocxRenderer struct{}

// NewDocxRenderer creates a new DOCX renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Format returns the output format name.
func (c *DocxRenderer) Format() string {
	return docxFormat
}

// Render writes one heading per folder and one block per request.
func (c *DocxRenderer) Render(collection *domain.PostmanCollection, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	c.addTitle(document, collection)
	c.addDescription(document, collection)
	c.addVariables(document, collection)
	c.addSections(document, collectSections(collection))

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (c *DocxRenderer) addTitle(document *docx.RootDoc, collection *domain.PostmanCollection) {
	_, _ = document.AddHeading(collection.Info.Name, 0) // Level 0 = Title style
	document.AddParagraph(fmt.Sprintf("Authentication: %s", describeAuth(collection.Auth)))
	document.AddEmptyParagraph()
}

func (c *DocxRenderer) addDescription(document *docx.RootDoc, collection *domain.PostmanCollection) {
	if collection.Info.Description == "" {
		return
	}

	_, _ = document.AddHeading("Description", 1)
	document.AddParagraph(plainText(collection.Info.Description))
	document.AddEmptyParagraph()
}

func (c *DocxRenderer) addVariables(document *docx.RootDoc, collection *domain.PostmanCollection) {
	if len(collection.Variable) == 0 {
		return
	}

	_, _ = document.AddHeading("Variables", 1)

	for _, v := range collection.Variable {
		document.AddParagraph(fmt.Sprintf("• %s = %s", v.Key, v.Value))
	}

	document.AddEmptyParagraph()
}

func (c *DocxRenderer) addSections(document *docx.RootDoc, sections []section) {
	if len(sections) == 0 {
		return
	}

	_, _ = document.AddHeading("Requests", 1)

	for _, s := range sections {
		_, _ = document.AddHeading(s.title, 2)

		if s.description != "" {
			document.AddParagraph(plainText(s.description))
		}

		if s.auth != nil {
			document.AddParagraph(fmt.Sprintf("Authentication: %s", describeAuth(s.auth)))
		}

		for _, ep := range s.endpoints {
			c.addEndpoint(document, ep)
		}
	}
}

func (c *DocxRenderer) addEndpoint(document *docx.RootDoc, ep endpoint) {
	req := ep.req

	_, _ = document.AddHeading(fmt.Sprintf("%s %s", formatMethod(req.Method), ep.name), 3)
	document.AddParagraph(req.URL.Raw)

	if req.Description != "" {
		document.AddParagraph(plainText(req.Description))
	}

	if req.Auth != nil {
		document.AddParagraph(fmt.Sprintf("Authentication: %s", describeAuth(req.Auth)))
	}

	if len(req.Header) > 0 {
		_, _ = document.AddHeading("Headers", 4)

		for _, line := range strings.Split(strings.TrimSpace(formatHeaders(req.Header)), "\n") {
			document.AddParagraph(line)
		}
	}

	if len(req.URL.Query) > 0 {
		_, _ = document.AddHeading("Query Parameters", 4)

		for _, q := range req.URL.Query {
			document.AddParagraph(fmt.Sprintf("• %s = %s", q.Key, q.Value))
		}
	}

	if req.Body != nil {
		label, content := describeBody(req.Body)

		_, _ = document.AddHeading(fmt.Sprintf("Body: %s", label), 4)

		for _, line := range strings.Split(content, "\n") {
			document.AddParagraph(line)
		}
	}

	document.AddEmptyParagraph()
}

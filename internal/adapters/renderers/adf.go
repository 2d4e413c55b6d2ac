package renderers

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const adfFormat = "confluence"

// ADFRenderer documents a collection in Atlassian Document Format (ADF) for Confluence.
type ADFRenderer struct{}

// NewADFRenderer creates a new ADF renderer.
func NewADFRenderer() *ADFRenderer {
	return &ADFRenderer{}
}

// Format returns the output format name.
func (c *ADFRenderer) Format() string {
	return adfFormat
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level    int    `json:"level,omitempty"`
	Language string `json:"language,omitempty"`
}

type adfMark struct {
	Type string `json:"type"`
}

// Render writes the collection documentation as ADF JSON.
func (c *ADFRenderer) Render(collection *domain.PostmanCollection, output io.Writer) error {
	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{},
	}

	adf.Content = append(adf.Content, c.heading(collection.Info.Name, 1))
	adf.Content = append(adf.Content, c.paragraph(fmt.Sprintf("Authentication: %s", describeAuth(collection.Auth))))

	if collection.Info.Description != "" {
		adf.Content = append(adf.Content, c.heading("Description", 2))
		adf.Content = append(adf.Content, c.paragraph(plainText(collection.Info.Description)))
	}

	if len(collection.Variable) > 0 {
		adf.Content = append(adf.Content, c.heading("Variables", 2))
		adf.Content = append(adf.Content, c.variableList(collection.Variable))
	}

	sections := collectSections(collection)
	if len(sections) > 0 {
		adf.Content = append(adf.Content, c.heading("Requests", 2))

		for _, s := range sections {
			adf.Content = append(adf.Content, c.sectionNodes(s)...)
		}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (c *ADFRenderer) heading(text string, level int) adfNode {
	return adfNode{
		Type:  "heading",
		Attrs: &adfAttrs{Level: level},
		Content: []adfNode{
			{Type: "text", Text: text},
		},
	}
}

func (c *ADFRenderer) paragraph(text string) adfNode {
	node := adfNode{Type: "paragraph"}
	if text != "" {
		node.Content = []adfNode{{Type: "text", Text: text}}
	}

	return node
}

func (c *ADFRenderer) boldText(text string) adfNode {
	return adfNode{
		Type:  "text",
		Text:  text,
		Marks: []adfMark{{Type: "strong"}},
	}
}

func (c *ADFRenderer) codeText(text string) adfNode {
	return adfNode{
		Type:  "text",
		Text:  text,
		Marks: []adfMark{{Type: "code"}},
	}
}

// codeBlock holds multi-line content. ADF rejects empty text nodes.
func (c *ADFRenderer) codeBlock(content, language string) adfNode {
	node := adfNode{Type: "codeBlock", Attrs: &adfAttrs{Language: language}}
	if content != "" {
		node.Content = []adfNode{{Type: "text", Text: content}}
	}

	return node
}

func (c *ADFRenderer) listItem(content ...adfNode) adfNode {
	return adfNode{
		Type: "listItem",
		Content: []adfNode{
			{Type: "paragraph", Content: content},
		},
	}
}

func (c *ADFRenderer) variableList(vars []domain.PostmanVariable) adfNode {
	items := make([]adfNode, 0, len(vars))

	for _, v := range vars {
		items = append(items, c.listItem(
			c.codeText(v.Key),
			adfNode{Type: "text", Text: fmt.Sprintf(" = %s", orNone(v.Value))},
		))
	}

	return adfNode{Type: "bulletList", Content: items}
}

func (c *ADFRenderer) sectionNodes(s section) []adfNode {
	nodes := []adfNode{c.heading(s.title, 3)}

	if s.description != "" {
		nodes = append(nodes, c.paragraph(plainText(s.description)))
	}

	if s.auth != nil {
		nodes = append(nodes, c.paragraph(fmt.Sprintf("Authentication: %s", describeAuth(s.auth))))
	}

	for _, ep := range s.endpoints {
		nodes = append(nodes, c.endpointNodes(ep)...)
	}

	return nodes
}

func (c *ADFRenderer) endpointNodes(ep endpoint) []adfNode {
	req := ep.req

	nodes := []adfNode{
		c.heading(fmt.Sprintf("%s %s", formatMethod(req.Method), ep.name), 4),
		{Type: "paragraph", Content: []adfNode{c.codeText(orNone(req.URL.Raw))}},
	}

	if req.Description != "" {
		nodes = append(nodes, c.paragraph(plainText(req.Description)))
	}

	if req.Auth != nil {
		nodes = append(nodes, adfNode{
			Type:    "paragraph",
			Content: []adfNode{c.boldText("Authentication: "), {Type: "text", Text: describeAuth(req.Auth)}},
		})
	}

	if len(req.Header) > 0 {
		items := make([]adfNode, 0, len(req.Header))
		for _, h := range req.Header {
			items = append(items, c.listItem(c.codeText(h.Key), adfNode{Type: "text", Text: ": " + orNone(h.Value)}))
		}

		nodes = append(nodes, c.heading("Headers", 5), adfNode{Type: "bulletList", Content: items})
	}

	if len(req.URL.Query) > 0 {
		items := make([]adfNode, 0, len(req.URL.Query))
		for _, q := range req.URL.Query {
			items = append(items, c.listItem(c.codeText(q.Key), adfNode{Type: "text", Text: " = " + orNone(q.Value)}))
		}

		nodes = append(nodes, c.heading("Query Parameters", 5), adfNode{Type: "bulletList", Content: items})
	}

	if req.Body != nil {
		label, content := describeBody(req.Body)
		language := ""
		if raw, ok := req.Body.(*domain.PostmanRawBody); ok {
			language = raw.Options.Raw.Language
		}

		nodes = append(nodes, c.heading("Body: "+label, 5), c.codeBlock(content, language))
	}

	// Divider between requests
	nodes = append(nodes, adfNode{Type: "rule"})

	return nodes
}

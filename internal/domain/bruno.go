// Package domain provides the source (Bruno) and target (Postman v2.1.0) collection models.
package domain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Item types used by Bruno exports.
const (
	ItemTypeFolder         = "folder"
	ItemTypeHTTPRequest    = "http-request"
	ItemTypeGraphQLRequest = "graphql-request"
)

var (
	// ErrInvalidJSON is returned when a document is not parseable as JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNotObject is returned when a document parses but is not a JSON object.
	ErrNotObject = errors.New("document is not a JSON object")
)

// BrunoCollection is a Bruno collection export.
type BrunoCollection struct {
	Name        string       `json:"name"`
	Version     Value        `json:"version,omitempty"`
	BrunoConfig *BrunoConfig `json:"brunoConfig,omitempty"`
	Description string       `json:"description,omitempty"`
	Info        *BrunoInfo   `json:"info,omitempty"`
	Root        *BrunoRoot   `json:"root,omitempty"`
	Items       []BrunoItem  `json:"items"`
}

// BrunoConfig is the embedded bruno.json of the collection.
type BrunoConfig struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Type    string `json:"type,omitempty"`
}

// BrunoInfo carries exporter metadata kept from a previous Postman round trip.
type BrunoInfo struct {
	PostmanID      string `json:"_postman_id,omitempty"`
	ExporterID     string `json:"_exporter_id,omitempty"`
	CollectionLink string `json:"_collection_link,omitempty"`
}

// BrunoRoot holds collection or folder level defaults.
type BrunoRoot struct {
	Request *BrunoDefaults `json:"request,omitempty"`
	Docs    string         `json:"docs,omitempty"`
}

// BrunoDefaults are request-level settings inherited by every request below them.
type BrunoDefaults struct {
	Headers     []BrunoHeader `json:"headers,omitempty"`
	Auth        *BrunoAuth    `json:"auth,omitempty"`
	Script      *BrunoScript  `json:"script,omitempty"`
	Vars        *BrunoVars    `json:"vars,omitempty"`
	Tests       string        `json:"tests,omitempty"`
	Docs        string        `json:"docs,omitempty"`
	Description string        `json:"description,omitempty"`
}

// BrunoItem is either a folder or a request.
type BrunoItem struct {
	UID     string        `json:"uid,omitempty"`
	Type    string        `json:"type"`
	Name    string        `json:"name"`
	Seq     Value         `json:"seq,omitempty"`
	Items   []BrunoItem   `json:"items,omitempty"`
	Root    *BrunoRoot    `json:"root,omitempty"`
	Request *BrunoRequest `json:"request,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (i *BrunoItem) IsFolder() bool {
	return i.Type == ItemTypeFolder
}

// IsRequest reports whether the item carries a request definition.
func (i *BrunoItem) IsRequest() bool {
	return !i.IsFolder() && i.Request != nil
}

// BrunoRequest is the request definition of a request item.
type BrunoRequest struct {
	Method                  string          `json:"method"`
	URL                     string          `json:"url"`
	Headers                 []BrunoHeader   `json:"headers,omitempty"`
	Params                  []BrunoParam    `json:"params,omitempty"`
	Body                    *BrunoBody      `json:"body,omitempty"`
	Auth                    *BrunoAuth      `json:"auth,omitempty"`
	Script                  *BrunoScript    `json:"script,omitempty"`
	Vars                    *BrunoVars      `json:"vars,omitempty"`
	Tests                   string          `json:"tests,omitempty"`
	Docs                    string          `json:"docs,omitempty"`
	Description             string          `json:"description,omitempty"`
	ProtocolProfileBehavior json.RawMessage `json:"protocolProfileBehavior,omitempty"`
}

// BrunoHeader is a request header.
type BrunoHeader struct {
	Name        string `json:"name"`
	Value       Value  `json:"value,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Disabled reports whether the header was explicitly disabled.
func (h BrunoHeader) Disabled() bool {
	return isDisabled(h.Enabled)
}

// Param types.
const (
	ParamTypeQuery = "query"
	ParamTypePath  = "path"
)

// BrunoParam is a query or path parameter.
type BrunoParam struct {
	Name        string `json:"name"`
	Value       Value  `json:"value,omitempty"`
	Type        string `json:"type"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Description string `json:"description,omitempty"`
}

// Disabled reports whether the parameter was explicitly disabled.
func (p BrunoParam) Disabled() bool {
	return isDisabled(p.Enabled)
}

// BrunoVars holds pre-request (req) and post-response (res) variables.
type BrunoVars struct {
	Req []BrunoVariable `json:"req,omitempty"`
	Res []BrunoVariable `json:"res,omitempty"`
}

// BrunoVariable is a single variable definition.
type BrunoVariable struct {
	Name        string `json:"name"`
	Value       Value  `json:"value,omitempty"`
	Type        string `json:"type,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Local       bool   `json:"local,omitempty"`
	Description string `json:"description,omitempty"`
}

// BrunoScript holds pre-request and post-response script source.
type BrunoScript struct {
	Req string `json:"req,omitempty"`
	Res string `json:"res,omitempty"`
}

// BrunoAuth is a mode-keyed auth configuration. Settings for a mode live in a
// sibling field named after it, e.g. {"mode":"bearer","bearer":{"token":"..."}}.
type BrunoAuth struct {
	Mode   string
	Fields map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *BrunoAuth) UnmarshalJSON(data []byte) error {
	mode, fields, err := decodeModeObject(data)
	if err != nil {
		return fmt.Errorf("failed to decode auth: %w", err)
	}

	a.Mode = mode
	a.Fields = fields

	return nil
}

// Section decodes the named sibling field into v. It reports false when the
// field is missing or does not have the expected shape.
func (a *BrunoAuth) Section(name string, v any) bool {
	if a == nil {
		return false
	}

	return decodeSection(a.Fields, name, v)
}

// Raw returns the raw JSON of the named sibling field.
func (a *BrunoAuth) Raw(name string) Value {
	if a == nil {
		return nil
	}

	return rawField(a.Fields, name)
}

// BrunoBody is a mode-keyed request body. Content for a mode lives in a sibling
// field named after it, e.g. {"mode":"json","json":"{...}"}.
type BrunoBody struct {
	Mode   string
	Fields map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BrunoBody) UnmarshalJSON(data []byte) error {
	mode, fields, err := decodeModeObject(data)
	if err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}

	b.Mode = mode
	b.Fields = fields

	return nil
}

// Section decodes the named sibling field into v.
func (b *BrunoBody) Section(name string, v any) bool {
	if b == nil {
		return false
	}

	return decodeSection(b.Fields, name, v)
}

// Raw returns the raw JSON of the named sibling field.
func (b *BrunoBody) Raw(name string) Value {
	if b == nil {
		return nil
	}

	return rawField(b.Fields, name)
}

// BrunoFormField is a multipart or urlencoded form field.
type BrunoFormField struct {
	Name        string `json:"name,omitempty"`
	Key         string `json:"key,omitempty"`
	Value       Value  `json:"value,omitempty"`
	Src         Value  `json:"src,omitempty"`
	Type        string `json:"type,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// FieldKey returns the field name, falling back to key.
func (f BrunoFormField) FieldKey() string {
	if f.Name != "" {
		return f.Name
	}

	return f.Key
}

// Disabled reports whether the field was explicitly disabled.
func (f BrunoFormField) Disabled() bool {
	return isDisabled(f.Enabled)
}

// ParseBrunoCollection decodes a Bruno collection export.
func ParseBrunoCollection(data []byte) (*BrunoCollection, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrInvalidJSON
	}

	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	var collection BrunoCollection
	if err := json.Unmarshal(trimmed, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse Bruno collection: %w", err)
	}

	return &collection, nil
}

func isDisabled(enabled *bool) bool {
	return enabled != nil && !*enabled
}

func decodeModeObject(data []byte) (string, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", nil, err
	}

	var mode string
	if raw, ok := fields["mode"]; ok {
		// A non-string mode is treated as unset.
		_ = json.Unmarshal(raw, &mode)
	}

	return mode, fields, nil
}

func decodeSection(fields map[string]json.RawMessage, name string, v any) bool {
	raw := rawField(fields, name)
	if !raw.Defined() {
		return false
	}

	return json.Unmarshal(raw, v) == nil
}

func rawField(fields map[string]json.RawMessage, name string) Value {
	raw, ok := fields[name]
	if !ok {
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	return Value(trimmed)
}

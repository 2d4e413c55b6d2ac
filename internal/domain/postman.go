package domain

import (
	"bytes"

	"github.com/goccy/go-json"
)

// SchemaV210 is the Postman Collection v2.1.0 schema URI.
const SchemaV210 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Postman auth types.
const (
	AuthTypeNoAuth = "noauth"
	AuthTypeOAuth2 = "oauth2"
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "apikey"
	AuthTypeBasic  = "basic"
	AuthTypeDigest = "digest"
	AuthTypeAWSV4  = "awsv4"
)

// Postman body modes.
const (
	BodyModeRaw        = "raw"
	BodyModeFormData   = "formdata"
	BodyModeURLEncoded = "urlencoded"
	BodyModeFile       = "file"
	BodyModeGraphQL    = "graphql"
)

// Script event listeners.
const (
	ListenPrerequest = "prerequest"
	ListenTest       = "test"
)

// ScriptTypeJavaScript is the only script type Postman accepts.
const ScriptTypeJavaScript = "text/javascript"

// PostmanCollection is a Postman Collection v2.1.0 document.
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Item     []PostmanItem     `json:"item"`
	Event    []PostmanEvent    `json:"event"`
	Variable []PostmanVariable `json:"variable"`
	Auth     *PostmanAuth      `json:"auth,omitempty"`
}

// PostmanInfo is the collection metadata block.
type PostmanInfo struct {
	Name           string `json:"name"`
	Schema         string `json:"schema"`
	Description    string `json:"description"`
	PostmanID      string `json:"_postman_id"`
	ExporterID     string `json:"_exporter_id,omitempty"`
	CollectionLink string `json:"_collection_link,omitempty"`
}

// PostmanItem is either a *PostmanFolder or a *PostmanRequestItem.
type PostmanItem interface {
	ItemName() string
	isPostmanItem()
}

// PostmanFolder is an item group.
type PostmanFolder struct {
	Name        string            `json:"name"`
	Item        []PostmanItem     `json:"item"`
	Description string            `json:"description,omitempty"`
	Event       []PostmanEvent    `json:"event,omitempty"`
	Auth        *PostmanAuth      `json:"auth,omitempty"`
	Variable    []PostmanVariable `json:"variable,omitempty"`
}

// ItemName returns the folder name.
func (f *PostmanFolder) ItemName() string { return f.Name }

func (*PostmanFolder) isPostmanItem() {}

// PostmanRequestItem is a request leaf.
type PostmanRequestItem struct {
	Name     string            `json:"name"`
	Request  *PostmanRequest   `json:"request"`
	Response []any             `json:"response"`
	Event    []PostmanEvent    `json:"event,omitempty"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// ItemName returns the request name.
func (r *PostmanRequestItem) ItemName() string { return r.Name }

func (*PostmanRequestItem) isPostmanItem() {}

// PostmanRequest is the request definition of a request item.
type PostmanRequest struct {
	Method                  string          `json:"method"`
	Header                  []PostmanHeader `json:"header"`
	URL                     PostmanURL      `json:"url"`
	Body                    PostmanBody     `json:"body,omitempty"`
	Description             string          `json:"description,omitempty"`
	ProtocolProfileBehavior json.RawMessage `json:"protocolProfileBehavior,omitempty"`
	Auth                    *PostmanAuth    `json:"auth,omitempty"`
}

// PostmanHeader is a request header.
type PostmanHeader struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// PostmanURL is the structured form of a request URL.
type PostmanURL struct {
	Raw      string                `json:"raw"`
	Protocol string                `json:"protocol"`
	Host     []string              `json:"host"`
	Port     string                `json:"port,omitempty"`
	Path     []string              `json:"path"`
	Query    []PostmanQueryParam   `json:"query,omitempty"`
	Variable []PostmanPathVariable `json:"variable,omitempty"`
}

// PostmanQueryParam is a query string entry.
type PostmanQueryParam struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled,omitempty"`
	Description string `json:"description,omitempty"`
}

// PostmanPathVariable is a path variable resolved by the client at send time.
type PostmanPathVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// PostmanVariable is a collection, folder or request variable.
type PostmanVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// PostmanEvent binds a script to a listener.
type PostmanEvent struct {
	Listen string        `json:"listen"`
	Script PostmanScript `json:"script"`
}

// PostmanScript is script source split into lines.
type PostmanScript struct {
	Type     string   `json:"type"`
	Exec     []string `json:"exec"`
	Packages struct{} `json:"packages"`
}

// PostmanAuth is an auth block. It encodes as {"type": T, T: params}, where
// unknown types carry their raw source settings instead of a param list.
type PostmanAuth struct {
	Type   string
	Params []PostmanAuthParam
	Raw    json.RawMessage
}

// PostmanAuthParam is a single auth setting.
type PostmanAuthParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// IsEmpty reports whether the auth block would encode as an empty object.
func (a *PostmanAuth) IsEmpty() bool {
	return a == nil || a.Type == ""
}

// Param returns the value of the named param.
func (a *PostmanAuth) Param(key string) (string, bool) {
	if a == nil {
		return "", false
	}

	for _, p := range a.Params {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// MarshalJSON implements json.Marshaler.
func (a PostmanAuth) MarshalJSON() ([]byte, error) {
	if a.Type == "" {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer

	buf.WriteString(`{"type":`)

	typ, err := marshalPlain(a.Type)
	if err != nil {
		return nil, err
	}

	buf.Write(typ)

	var settings []byte

	switch {
	case a.Params != nil:
		settings, err = marshalPlain(a.Params)
		if err != nil {
			return nil, err
		}
	case len(a.Raw) > 0:
		settings = a.Raw
	}

	if settings != nil {
		buf.WriteByte(',')
		buf.Write(typ)
		buf.WriteByte(':')
		buf.Write(settings)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// PostmanBody is one of the body shapes below.
type PostmanBody interface {
	BodyMode() string
}

// PostmanRawBody is literal text with a language hint.
type PostmanRawBody struct {
	Mode    string             `json:"mode"`
	Raw     string             `json:"raw"`
	Options PostmanBodyOptions `json:"options"`
}

// BodyMode returns the body mode.
func (b *PostmanRawBody) BodyMode() string { return b.Mode }

// PostmanBodyOptions holds raw body options.
type PostmanBodyOptions struct {
	Raw PostmanRawOptions `json:"raw"`
}

// PostmanRawOptions names the raw body language.
type PostmanRawOptions struct {
	Language string `json:"language"`
}

// PostmanFormDataBody is a multipart/form-data body.
type PostmanFormDataBody struct {
	Mode     string             `json:"mode"`
	FormData []PostmanFormParam `json:"formdata"`
}

// BodyMode returns the body mode.
func (b *PostmanFormDataBody) BodyMode() string { return b.Mode }

// PostmanFormParam is a multipart field. File fields carry Src, all others Value.
type PostmanFormParam struct {
	Key         string          `json:"key"`
	Type        string          `json:"type"`
	Disabled    bool            `json:"disabled"`
	Src         json.RawMessage `json:"src,omitempty"`
	Value       *string         `json:"value,omitempty"`
	Description string          `json:"description,omitempty"`
}

// PostmanURLEncodedBody is an application/x-www-form-urlencoded body.
type PostmanURLEncodedBody struct {
	Mode       string                   `json:"mode"`
	URLEncoded []PostmanURLEncodedParam `json:"urlencoded"`
}

// BodyMode returns the body mode.
func (b *PostmanURLEncodedBody) BodyMode() string { return b.Mode }

// PostmanURLEncodedParam is a urlencoded field.
type PostmanURLEncodedParam struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// PostmanFileBody is a binary file body.
type PostmanFileBody struct {
	Mode string         `json:"mode"`
	File PostmanFileSrc `json:"file"`
}

// BodyMode returns the body mode.
func (b *PostmanFileBody) BodyMode() string { return b.Mode }

// PostmanFileSrc points at the file to send.
type PostmanFileSrc struct {
	Src string `json:"src"`
}

// PostmanGraphQLBody is a GraphQL query with serialized variables.
type PostmanGraphQLBody struct {
	Mode    string         `json:"mode"`
	GraphQL PostmanGraphQL `json:"graphql"`
}

// BodyMode returns the body mode.
func (b *PostmanGraphQLBody) BodyMode() string { return b.Mode }

// PostmanGraphQL holds the query and its variables as a JSON string.
type PostmanGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

// marshalPlain encodes v without HTML escaping.
func marshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

package mapper

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

// Bruno body modes.
const (
	BodyModeNone           = "none"
	BodyModeJSON           = "json"
	BodyModeText           = "text"
	BodyModeXML            = "xml"
	BodyModeSPARQL         = "sparql"
	BodyModeFormData       = "formdata"
	BodyModeMultipartForm  = "multipartForm"
	BodyModeURLEncoded     = "urlencoded"
	BodyModeFormURLEncoded = "formUrlEncoded"
	BodyModeFile           = "file"
	BodyModeGraphQL        = "graphql"
)

const fieldTypeText = "text"

// BodyContent is one of JSONBody, TextBody, FormDataBody, URLEncodedBody,
// FileBody, GraphQLBody or OpaqueBody.
type BodyContent interface {
	bodyMode() string
}

// JSONBody is a JSON document, either as source text or as a structured value.
type JSONBody struct {
	Content domain.Value
}

// TextBody is a text, xml or sparql body.
type TextBody struct {
	Mode    string
	Content domain.Value
}

// FormDataBody is a multipart form.
type FormDataBody struct {
	Fields []domain.BrunoFormField
}

// URLEncodedBody is an urlencoded form.
type URLEncodedBody struct {
	Fields []domain.BrunoFormField
}

// FileBody is a binary file body.
type FileBody struct {
	File domain.Value
}

// GraphQLBody is a GraphQL query.
type GraphQLBody struct {
	Query     domain.Value `json:"query"`
	Variables domain.Value `json:"variables"`
}

// OpaqueBody is a mode this package does not know.
type OpaqueBody struct {
	Mode    string
	Content domain.Value
}

func (JSONBody) bodyMode() string       { return BodyModeJSON }
func (b TextBody) bodyMode() string     { return b.Mode }
func (FormDataBody) bodyMode() string   { return BodyModeFormData }
func (URLEncodedBody) bodyMode() string { return BodyModeURLEncoded }
func (FileBody) bodyMode() string       { return BodyModeFile }
func (GraphQLBody) bodyMode() string    { return BodyModeGraphQL }
func (b OpaqueBody) bodyMode() string   { return b.Mode }

// rawLanguages maps text-like Bruno modes to the Postman raw language hint.
var rawLanguages = map[string]string{
	BodyModeText:   "text",
	BodyModeXML:    "xml",
	BodyModeSPARQL: "text",
}

// KnownBodyMode reports whether mode has a dedicated mapping.
func KnownBodyMode(mode string) bool {
	switch mode {
	case BodyModeNone, BodyModeJSON, BodyModeText, BodyModeXML, BodyModeSPARQL,
		BodyModeFormData, BodyModeMultipartForm, BodyModeURLEncoded,
		BodyModeFormURLEncoded, BodyModeFile, BodyModeGraphQL:
		return true
	default:
		return false
	}
}

// ParseBody turns a mode-keyed Bruno body into a BodyContent.
// It returns false when the request has no body.
func ParseBody(body *domain.BrunoBody) (BodyContent, bool) {
	if body == nil || body.Mode == "" || body.Mode == BodyModeNone {
		return nil, false
	}

	switch body.Mode {
	case BodyModeJSON:
		return JSONBody{Content: body.Raw(BodyModeJSON)}, true
	case BodyModeText, BodyModeXML, BodyModeSPARQL:
		return TextBody{Mode: body.Mode, Content: body.Raw(body.Mode)}, true
	case BodyModeFormData, BodyModeMultipartForm:
		return FormDataBody{Fields: firstFieldList(body, BodyModeMultipartForm, BodyModeFormData, "form")}, true
	case BodyModeURLEncoded, BodyModeFormURLEncoded:
		return URLEncodedBody{Fields: firstFieldList(body, BodyModeURLEncoded, BodyModeFormURLEncoded)}, true
	case BodyModeFile:
		return FileBody{File: body.Raw(BodyModeFile)}, true
	case BodyModeGraphQL:
		var g GraphQLBody
		body.Section(BodyModeGraphQL, &g)
		return g, true
	default:
		return OpaqueBody{Mode: body.Mode, Content: body.Raw(body.Mode)}, true
	}
}

// MapBody converts body content into its Postman body.
func MapBody(content BodyContent) domain.PostmanBody {
	switch b := content.(type) {
	case JSONBody:
		return rawBody(jsonText(b.Content), "json")
	case TextBody:
		return rawBody(b.Content.Or(""), rawLanguages[b.Mode])
	case FormDataBody:
		return mapFormData(b.Fields)
	case URLEncodedBody:
		return mapURLEncoded(b.Fields)
	case FileBody:
		return &domain.PostmanFileBody{
			Mode: domain.BodyModeFile,
			File: domain.PostmanFileSrc{Src: fileSource(b.File)},
		}
	case GraphQLBody:
		return &domain.PostmanGraphQLBody{
			Mode: domain.BodyModeGraphQL,
			GraphQL: domain.PostmanGraphQL{
				Query:     b.Query.Or(""),
				Variables: graphQLVariables(b.Variables),
			},
		}
	case OpaqueBody:
		return rawBody(b.Content.Or(""), b.Mode)
	default:
		return nil
	}
}

func rawBody(raw, language string) *domain.PostmanRawBody {
	return &domain.PostmanRawBody{
		Mode: domain.BodyModeRaw,
		Raw:  raw,
		Options: domain.PostmanBodyOptions{
			Raw: domain.PostmanRawOptions{Language: language},
		},
	}
}

func mapFormData(fields []domain.BrunoFormField) *domain.PostmanFormDataBody {
	params := make([]domain.PostmanFormParam, 0, len(fields))

	for _, f := range fields {
		param := domain.PostmanFormParam{
			Key:         f.FieldKey(),
			Type:        firstNonEmpty(f.Type, fieldTypeText),
			Disabled:    f.Disabled(),
			Description: f.Description,
		}

		if f.Type == "file" {
			param.Src = formFileSource(f)
		} else {
			value := f.Value.String()
			param.Value = &value
		}

		params = append(params, param)
	}

	return &domain.PostmanFormDataBody{Mode: domain.BodyModeFormData, FormData: params}
}

func mapURLEncoded(fields []domain.BrunoFormField) *domain.PostmanURLEncodedBody {
	params := make([]domain.PostmanURLEncodedParam, 0, len(fields))

	for _, f := range fields {
		params = append(params, domain.PostmanURLEncodedParam{
			Key:         f.FieldKey(),
			Value:       f.Value.String(),
			Disabled:    f.Disabled(),
			Type:        firstNonEmpty(f.Type, fieldTypeText),
			Description: f.Description,
		})
	}

	return &domain.PostmanURLEncodedBody{Mode: domain.BodyModeURLEncoded, URLEncoded: params}
}

// firstFieldList returns the first of the named sibling fields holding a list.
func firstFieldList(body *domain.BrunoBody, names ...string) []domain.BrunoFormField {
	for _, name := range names {
		var fields []domain.BrunoFormField
		if body.Section(name, &fields) {
			return fields
		}
	}

	return nil
}

// formFileSource picks value, then src, as the file path(s) of a file field.
// Bruno stores multipart file paths as a list, which Postman also accepts.
func formFileSource(f domain.BrunoFormField) json.RawMessage {
	switch {
	case f.Value.Truthy():
		return json.RawMessage(f.Value)
	case f.Src.Truthy():
		return json.RawMessage(f.Src)
	default:
		return json.RawMessage(`""`)
	}
}

// brunoFile is one entry of a Bruno binary file body.
type brunoFile struct {
	FilePath string `json:"filePath"`
	Selected bool   `json:"selected"`
}

// fileSource resolves a file body to a single path. A plain string is used as
// is; a list of files resolves to the selected entry, else the first one.
func fileSource(file domain.Value) string {
	if !file.Truthy() {
		return ""
	}

	if file.IsString() {
		return file.String()
	}

	var files []brunoFile
	if err := json.Unmarshal(file, &files); err != nil || len(files) == 0 {
		return file.String()
	}

	for _, f := range files {
		if f.Selected {
			return f.FilePath
		}
	}

	return files[0].FilePath
}

// jsonText returns JSON source verbatim, or a structured value pretty-printed
// with two-space indentation. Key order of the source is preserved.
func jsonText(content domain.Value) string {
	if !content.Defined() {
		return ""
	}

	if content.IsString() {
		return content.String()
	}

	var compact, indented bytes.Buffer
	if err := json.Compact(&compact, content); err != nil {
		return content.String()
	}

	if err := json.Indent(&indented, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}

	return indented.String()
}

// graphQLVariables serializes GraphQL variables to a JSON string.
func graphQLVariables(vars domain.Value) string {
	if vars.IsString() {
		return vars.String()
	}

	if !vars.Truthy() {
		return "{}"
	}

	return vars.String()
}

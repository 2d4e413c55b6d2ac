// Package renderers writes converted Postman collections in various output formats.
package renderers

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

// defaultSection collects requests that live directly under the collection.
const defaultSection = "Default"

// section is a folder flattened for documentation. Nested folders become
// sections of their own, titled with their full path.
type section struct {
	title       string
	description string
	auth        *domain.PostmanAuth
	endpoints   []endpoint
}

type endpoint struct {
	name string
	req  *domain.PostmanRequest
}

// collectSections flattens the item tree in order. The default section comes
// first and is skipped when empty.
func collectSections(collection *domain.PostmanCollection) []section {
	var nested []section

	var walk func(items []domain.PostmanItem, parents []string) []endpoint
	walk = func(items []domain.PostmanItem, parents []string) []endpoint {
		var endpoints []endpoint

		for _, item := range items {
			switch it := item.(type) {
			case *domain.PostmanRequestItem:
				endpoints = append(endpoints, endpoint{name: it.Name, req: it.Request})
			case *domain.PostmanFolder:
				path := append(parents[:len(parents):len(parents)], it.Name)

				idx := len(nested)
				nested = append(nested, section{
					title:       strings.Join(path, " / "),
					description: it.Description,
					auth:        it.Auth,
				})

				folderEndpoints := walk(it.Item, path)
				nested[idx].endpoints = folderEndpoints
			}
		}

		return endpoints
	}

	root := section{title: defaultSection, endpoints: walk(collection.Item, nil)}

	if len(root.endpoints) == 0 {
		return nested
	}

	return append([]section{root}, nested...)
}

// formatMethod returns a styled method string.
func formatMethod(method string) string {
	return strings.ToUpper(method)
}

// describeAuth returns a one-line summary of an auth block.
func describeAuth(auth *domain.PostmanAuth) string {
	if auth.IsEmpty() || auth.Type == domain.AuthTypeNoAuth {
		return "No authentication"
	}

	switch auth.Type {
	case domain.AuthTypeBearer:
		return "Bearer token"
	case domain.AuthTypeBasic:
		user, _ := auth.Param("username")
		return fmt.Sprintf("Basic authentication (user %s)", orNone(user))
	case domain.AuthTypeAPIKey:
		key, _ := auth.Param("key")
		in, _ := auth.Param("in")
		return fmt.Sprintf("API key %s in %s", orNone(key), in)
	case domain.AuthTypeOAuth2:
		grant, _ := auth.Param("grant_type")
		return fmt.Sprintf("OAuth 2.0 (%s)", grant)
	case domain.AuthTypeDigest:
		return "Digest authentication"
	case domain.AuthTypeAWSV4:
		region, _ := auth.Param("region")
		service, _ := auth.Param("service")
		return fmt.Sprintf("AWS Signature v4 (%s/%s)", orNone(region), orNone(service))
	default:
		return fmt.Sprintf("%s authentication", auth.Type)
	}
}

// describeBody returns a label and the printable content of a request body.
func describeBody(body domain.PostmanBody) (string, string) {
	switch b := body.(type) {
	case *domain.PostmanRawBody:
		return fmt.Sprintf("raw (%s)", b.Options.Raw.Language), b.Raw
	case *domain.PostmanFormDataBody:
		var lines strings.Builder

		for _, p := range b.FormData {
			value := string(p.Src)
			if p.Value != nil {
				value = *p.Value
			}

			lines.WriteString(fmt.Sprintf("%s (%s): %s\n", p.Key, p.Type, value))
		}

		return "multipart form", strings.TrimSuffix(lines.String(), "\n")
	case *domain.PostmanURLEncodedBody:
		pairs := make([]string, 0, len(b.URLEncoded))
		for _, p := range b.URLEncoded {
			pairs = append(pairs, p.Key+"="+p.Value)
		}

		return "urlencoded form", strings.Join(pairs, "&")
	case *domain.PostmanFileBody:
		return "file", b.File.Src
	case *domain.PostmanGraphQLBody:
		return "graphql", b.GraphQL.Query + "\n\nVariables: " + b.GraphQL.Variables
	default:
		return "", ""
	}
}

// formatHeaders returns a formatted header list.
func formatHeaders(headers []domain.PostmanHeader) string {
	if len(headers) == 0 {
		return "None"
	}

	var result strings.Builder

	for _, h := range headers {
		disabled := ""
		if h.Disabled {
			disabled = " (disabled)"
		}

		result.WriteString(fmt.Sprintf("- %s: %s%s\n", h.Key, h.Value, disabled))
	}

	return result.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}

// blockTags start a new line when descriptions are flattened to text.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// plainText flattens an HTML description to text. Entities are decoded and
// blank lines dropped.
func plainText(s string) string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return joinNonEmptyLines(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); blockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}

func joinNonEmptyLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

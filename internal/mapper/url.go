package mapper

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

var (
	// templateVarPattern matches {{name}} environment references.
	templateVarPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

	// pathVarPattern matches {name} path placeholders.
	pathVarPattern = regexp.MustCompile(`\{([^{}]+)\}`)

	protocolPattern = regexp.MustCompile(`^([^:]+)://`)

	errNotAbsolute = errors.New("URL has no scheme or host")
)

const placeholderFormat = "__VAR_%d__"

// MapURL splits a Bruno request URL into the structured Postman form and merges
// in the request's query and path parameters.
func MapURL(raw string, params []domain.BrunoParam) domain.PostmanURL {
	result, _ := mapURL(raw, params)
	return result
}

// mapURL reports false when raw could not be parsed as an absolute URL and the
// manual parser was used instead.
func mapURL(raw string, params []domain.BrunoParam) (domain.PostmanURL, bool) {
	if raw == "" {
		return domain.PostmanURL{Host: []string{}, Path: []string{}}, true
	}

	result, err := parseURL(raw)
	if err != nil {
		result = parseURLManually(raw)
		replaceParams(&result, params)

		return result, false
	}

	mergeQueryParams(&result, params)
	mergePathVariables(&result, params, raw)

	return result, true
}

// parseURL parses raw with net/url. {{var}} references are swapped for opaque
// placeholders first so they survive parsing, then restored in every part.
func parseURL(raw string) (domain.PostmanURL, error) {
	var pairs []string

	masked := templateVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		placeholder := fmt.Sprintf(placeholderFormat, len(pairs)/2)
		pairs = append(pairs, placeholder, match)

		return placeholder
	})

	u, err := url.Parse(masked)
	if err != nil {
		return domain.PostmanURL{}, err
	}

	if u.Scheme == "" || u.Hostname() == "" {
		return domain.PostmanURL{}, errNotAbsolute
	}

	restore := strings.NewReplacer(pairs...)

	// Path segments stay as written. RawPath holds the input when it differs
	// from the default encoding; otherwise the input is exactly EscapedPath.
	path := u.RawPath
	if path == "" {
		path = u.EscapedPath()
	}

	result := domain.PostmanURL{
		Raw:      raw,
		Protocol: u.Scheme,
		Host:     strings.Split(restore.Replace(u.Hostname()), "."),
		Port:     u.Port(),
		Path:     []string{},
	}

	for _, segment := range splitNonEmpty(path, "/") {
		result.Path = append(result.Path, restore.Replace(segment))
	}

	for _, q := range parseQuery(u.RawQuery, url.QueryUnescape) {
		result.Query = append(result.Query, domain.PostmanQueryParam{
			Key:   restore.Replace(q.Key),
			Value: restore.Replace(q.Value),
		})
	}

	return result, nil
}

// parseURLManually handles URLs net/url rejects or cannot place, most commonly
// a leading {{baseUrl}} with no scheme.
func parseURLManually(raw string) domain.PostmanURL {
	result := domain.PostmanURL{Raw: raw}

	rest := raw
	if m := protocolPattern.FindStringSubmatch(rest); m != nil {
		result.Protocol = m[1]
		rest = rest[len(m[0]):]
	}

	hostPart, pathPart := rest, ""
	if i := strings.Index(rest, "/"); i != -1 {
		hostPart, pathPart = rest[:i], rest[i+1:]
	}

	queryPart := ""
	if i := strings.Index(pathPart, "?"); i != -1 {
		pathPart, queryPart = pathPart[:i], pathPart[i+1:]
	}

	result.Host = splitNonEmpty(hostPart, ".")
	result.Path = splitNonEmpty(pathPart, "/")
	result.Query = parseQuery(queryPart, url.PathUnescape)

	return result
}

// parseQuery splits a query string in order. Pieces that fail to decode are
// kept as written.
func parseQuery(query string, unescape func(string) (string, error)) []domain.PostmanQueryParam {
	var params []domain.PostmanQueryParam

	for _, piece := range strings.Split(query, "&") {
		if piece == "" {
			continue
		}

		key, value, _ := strings.Cut(piece, "=")
		if key == "" {
			continue
		}

		params = append(params, domain.PostmanQueryParam{
			Key:   decodeOr(key, unescape),
			Value: decodeOr(value, unescape),
		})
	}

	return params
}

func decodeOr(s string, unescape func(string) (string, error)) string {
	decoded, err := unescape(s)
	if err != nil {
		return s
	}

	return decoded
}

// mergeQueryParams appends query params whose key the URL does not already carry.
func mergeQueryParams(result *domain.PostmanURL, params []domain.BrunoParam) {
	existing := make(map[string]struct{}, len(result.Query))
	for _, q := range result.Query {
		existing[q.Key] = struct{}{}
	}

	for _, p := range params {
		if p.Type != domain.ParamTypeQuery {
			continue
		}

		if _, ok := existing[p.Name]; ok {
			continue
		}

		result.Query = append(result.Query, queryParam(p))
	}
}

// mergePathVariables collects {name} placeholders from raw and fills them from
// path params by name; path params with no placeholder are appended.
func mergePathVariables(result *domain.PostmanURL, params []domain.BrunoParam, raw string) {
	var vars []domain.PostmanPathVariable

	index := make(map[string]int)

	stripped := templateVarPattern.ReplaceAllString(raw, "")
	for _, m := range pathVarPattern.FindAllStringSubmatch(stripped, -1) {
		if _, ok := index[m[1]]; ok {
			continue
		}

		index[m[1]] = len(vars)
		vars = append(vars, domain.PostmanPathVariable{Key: m[1]})
	}

	for _, p := range params {
		if p.Type != domain.ParamTypePath {
			continue
		}

		if i, ok := index[p.Name]; ok {
			vars[i].Value = p.Value.String()
			if p.Description != "" {
				vars[i].Description = p.Description
			}

			continue
		}

		vars = append(vars, pathVariable(p))
	}

	if len(vars) > 0 {
		result.Variable = vars
	}
}

// replaceParams overrides whatever the manual parser found with the request's
// own query and path params.
func replaceParams(result *domain.PostmanURL, params []domain.BrunoParam) {
	var query []domain.PostmanQueryParam
	var vars []domain.PostmanPathVariable

	for _, p := range params {
		switch p.Type {
		case domain.ParamTypeQuery:
			query = append(query, queryParam(p))
		case domain.ParamTypePath:
			vars = append(vars, pathVariable(p))
		}
	}

	if len(query) > 0 {
		result.Query = query
	}

	if len(vars) > 0 {
		result.Variable = vars
	}
}

func queryParam(p domain.BrunoParam) domain.PostmanQueryParam {
	return domain.PostmanQueryParam{
		Key:         p.Name,
		Value:       p.Value.String(),
		Disabled:    p.Disabled(),
		Description: p.Description,
	}
}

func pathVariable(p domain.BrunoParam) domain.PostmanPathVariable {
	return domain.PostmanPathVariable{
		Key:         p.Name,
		Value:       p.Value.String(),
		Description: p.Description,
	}
}

func splitNonEmpty(s, sep string) []string {
	parts := []string{}

	for _, part := range strings.Split(s, sep) {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}

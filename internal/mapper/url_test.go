package mapper

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

func pathParam(name, value string) domain.BrunoParam {
	return domain.BrunoParam{Name: name, Value: domain.Text(value), Type: domain.ParamTypePath}
}

func queryParamSrc(name, value string) domain.BrunoParam {
	return domain.BrunoParam{Name: name, Value: domain.Text(value), Type: domain.ParamTypeQuery}
}

func TestMapURLTemplateRoundTrip(t *testing.T) {
	got := MapURL("https://{{host}}/users/{id}?active=true", []domain.BrunoParam{pathParam("id", "42")})

	assert.Equal(t, domain.PostmanURL{
		Raw:      "https://{{host}}/users/{id}?active=true",
		Protocol: "https",
		Host:     []string{"{{host}}"},
		Path:     []string{"users", "{id}"},
		Query:    []domain.PostmanQueryParam{{Key: "active", Value: "true"}},
		Variable: []domain.PostmanPathVariable{{Key: "id", Value: "42"}},
	}, got)
}

func TestMapURLStructured(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		params []domain.BrunoParam
		want   domain.PostmanURL
	}{
		{
			name: "plain",
			raw:  "https://api.example.com/v1/users",
			want: domain.PostmanURL{
				Raw:      "https://api.example.com/v1/users",
				Protocol: "https",
				Host:     []string{"api", "example", "com"},
				Path:     []string{"v1", "users"},
			},
		},
		{
			name: "port and trailing slash",
			raw:  "http://localhost:8080/health/",
			want: domain.PostmanURL{
				Raw:      "http://localhost:8080/health/",
				Protocol: "http",
				Host:     []string{"localhost"},
				Port:     "8080",
				Path:     []string{"health"},
			},
		},
		{
			name: "templated path segment and query value",
			raw:  "https://example.com/{{version}}/items?page={{page}}&q=a%20b",
			want: domain.PostmanURL{
				Raw:      "https://example.com/{{version}}/items?page={{page}}&q=a%20b",
				Protocol: "https",
				Host:     []string{"example", "com"},
				Path:     []string{"{{version}}", "items"},
				Query: []domain.PostmanQueryParam{
					{Key: "page", Value: "{{page}}"},
					{Key: "q", Value: "a b"},
				},
			},
		},
		{
			name: "parsed query wins over params",
			raw:  "https://example.com/search?q=url",
			params: []domain.BrunoParam{
				queryParamSrc("q", "param"),
				queryParamSrc("limit", "10"),
			},
			want: domain.PostmanURL{
				Raw:      "https://example.com/search?q=url",
				Protocol: "https",
				Host:     []string{"example", "com"},
				Path:     []string{"search"},
				Query: []domain.PostmanQueryParam{
					{Key: "q", Value: "url"},
					{Key: "limit", Value: "10"},
				},
			},
		},
		{
			name:   "path params without placeholder are appended",
			raw:    "https://example.com/orgs/{org}/repos/{org}",
			params: []domain.BrunoParam{pathParam("repo", "r1"), pathParam("org", "acme")},
			want: domain.PostmanURL{
				Raw:      "https://example.com/orgs/{org}/repos/{org}",
				Protocol: "https",
				Host:     []string{"example", "com"},
				Path:     []string{"orgs", "{org}", "repos", "{org}"},
				Variable: []domain.PostmanPathVariable{
					{Key: "org", Value: "acme"},
					{Key: "repo", Value: "r1"},
				},
			},
		},
		{
			name: "percent-encoded path segments stay encoded",
			raw:  "https://api.example.com/users/john%20doe?q=a%20b",
			want: domain.PostmanURL{
				Raw:      "https://api.example.com/users/john%20doe?q=a%20b",
				Protocol: "https",
				Host:     []string{"api", "example", "com"},
				Path:     []string{"users", "john%20doe"},
				Query:    []domain.PostmanQueryParam{{Key: "q", Value: "a b"}},
			},
		},
		{
			name: "encoded braces are not placeholders",
			raw:  "https://example.com/a/%7Bx%7D",
			want: domain.PostmanURL{
				Raw:      "https://example.com/a/%7Bx%7D",
				Protocol: "https",
				Host:     []string{"example", "com"},
				Path:     []string{"a", "%7Bx%7D"},
			},
		},
		{
			name: "unfilled placeholder keeps empty value",
			raw:  "https://example.com/files/{name}",
			want: domain.PostmanURL{
				Raw:      "https://example.com/files/{name}",
				Protocol: "https",
				Host:     []string{"example", "com"},
				Path:     []string{"files", "{name}"},
				Variable: []domain.PostmanPathVariable{{Key: "name"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := mapURL(tt.raw, tt.params)
			assert.True(t, parsed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapURLManualFallback(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		params []domain.BrunoParam
		want   domain.PostmanURL
	}{
		{
			name: "template base url",
			raw:  "{{baseUrl}}/users?x=1&name=a%20b",
			want: domain.PostmanURL{
				Raw:   "{{baseUrl}}/users?x=1&name=a%20b",
				Host:  []string{"{{baseUrl}}"},
				Path:  []string{"users"},
				Query: []domain.PostmanQueryParam{{Key: "x", Value: "1"}, {Key: "name", Value: "a b"}},
			},
		},
		{
			name: "value keeps later equals signs",
			raw:  "{{baseUrl}}/q?filter=a=b",
			want: domain.PostmanURL{
				Raw:   "{{baseUrl}}/q?filter=a=b",
				Host:  []string{"{{baseUrl}}"},
				Path:  []string{"q"},
				Query: []domain.PostmanQueryParam{{Key: "filter", Value: "a=b"}},
			},
		},
		{
			name: "params replace parsed query",
			raw:  "{{baseUrl}}/users/{id}?x=1",
			params: []domain.BrunoParam{
				queryParamSrc("y", "2"),
				pathParam("id", "7"),
			},
			want: domain.PostmanURL{
				Raw:      "{{baseUrl}}/users/{id}?x=1",
				Host:     []string{"{{baseUrl}}"},
				Path:     []string{"users", "{id}"},
				Query:    []domain.PostmanQueryParam{{Key: "y", Value: "2"}},
				Variable: []domain.PostmanPathVariable{{Key: "id", Value: "7"}},
			},
		},
		{
			name: "host only",
			raw:  "localhost",
			want: domain.PostmanURL{
				Raw:  "localhost",
				Host: []string{"localhost"},
				Path: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := mapURL(tt.raw, tt.params)
			assert.False(t, parsed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapURLEmpty(t *testing.T) {
	got := MapURL("", nil)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":"","protocol":"","host":[],"path":[]}`, string(out))
}

func TestMapURLDisabledQueryParam(t *testing.T) {
	disabled := false
	param := queryParamSrc("debug", "1")
	param.Enabled = &disabled
	param.Description = "verbose output"

	got := MapURL("https://example.com/", []domain.BrunoParam{param})

	assert.Equal(t, []domain.PostmanQueryParam{
		{Key: "debug", Value: "1", Disabled: true, Description: "verbose output"},
	}, got.Query)
	assert.Empty(t, got.Path)
	assert.Nil(t, got.Variable)
}

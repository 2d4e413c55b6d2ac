package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrunoCollection(t *testing.T) {
	collection, err := ParseBrunoCollection([]byte(`
	{
	  "name": "API",
	  "brunoConfig": {"name": "api", "version": "1", "type": "collection"},
	  "items": [
	    {"type": "folder", "name": "users", "items": [
	      {"type": "http-request", "name": "get", "request": {
	        "method": "GET",
	        "url": "https://example.com",
	        "headers": [{"name": "A", "value": 1, "enabled": false}],
	        "body": {"mode": "json", "json": {"k": "v"}},
	        "auth": {"mode": "bearer", "bearer": {"token": "t"}}
	      }}
	    ]},
	    {"type": "websocket", "name": "ws"}
	  ]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "API", collection.Name)
	require.NotNil(t, collection.BrunoConfig)
	assert.Equal(t, "api", collection.BrunoConfig.Name)
	require.Len(t, collection.Items, 2)

	folder := collection.Items[0]
	assert.True(t, folder.IsFolder())
	assert.False(t, folder.IsRequest())
	require.Len(t, folder.Items, 1)

	request := folder.Items[0]
	assert.True(t, request.IsRequest())
	require.NotNil(t, request.Request)
	assert.True(t, request.Request.Headers[0].Disabled())
	assert.Equal(t, "1", request.Request.Headers[0].Value.String())

	body := request.Request.Body
	require.NotNil(t, body)
	assert.Equal(t, "json", body.Mode)
	assert.Equal(t, `{"k":"v"}`, body.Raw("json").String())
	assert.False(t, body.Raw("text").Defined())

	var bearer struct {
		Token string `json:"token"`
	}
	assert.True(t, request.Request.Auth.Section("bearer", &bearer))
	assert.Equal(t, "t", bearer.Token)
	assert.False(t, request.Request.Auth.Section("basic", &bearer))

	unknown := collection.Items[1]
	assert.False(t, unknown.IsFolder())
	assert.False(t, unknown.IsRequest())
}

func TestParseBrunoCollectionRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrInvalidJSON},
		{name: "garbage", input: "{not json", wantErr: ErrInvalidJSON},
		{name: "array", input: `[{"name":"x"}]`, wantErr: ErrNotObject},
		{name: "string", input: `"collection"`, wantErr: ErrNotObject},
		{name: "null", input: `null`, wantErr: ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBrunoCollection([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBrunoModeObjects(t *testing.T) {
	var auth *BrunoAuth
	assert.False(t, auth.Section("bearer", &struct{}{}))
	assert.False(t, auth.Raw("bearer").Defined())

	var body BrunoBody
	require.NoError(t, body.UnmarshalJSON([]byte(`{"mode": 3, "text": null}`)))
	assert.Empty(t, body.Mode)
	assert.False(t, body.Raw("text").Defined())

	field := BrunoFormField{Key: "fallback"}
	assert.Equal(t, "fallback", field.FieldKey())
	assert.False(t, field.Disabled())
}

func TestParseBrunoCollectionLooseScalars(t *testing.T) {
	collection, err := ParseBrunoCollection([]byte(`
	{
	  "name": 5,
	  "description": null,
	  "brunoConfig": {"name": "api", "version": 2},
	  "root": {"docs": false, "request": {"tests": 1, "docs": {"x": 1}}},
	  "items": [
	    {"type": "http-request", "uid": 42, "name": true, "request": {
	      "method": "GET",
	      "url": "https://example.com",
	      "tests": true,
	      "docs": {},
	      "description": 1.50,
	      "headers": [{"name": 7, "value": "v", "description": ["a"]}],
	      "params": [{"name": "id", "value": 1, "type": "path"}],
	      "vars": {"req": [{"name": 0, "value": "x"}]},
	      "script": {"req": 1e3},
	      "body": {"mode": "formUrlEncoded", "formUrlEncoded": [{"name": 9, "value": "v"}]}
	    }}
	  ]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "5", collection.Name)
	assert.Empty(t, collection.Description)
	assert.Equal(t, "2", collection.BrunoConfig.Version)
	require.NotNil(t, collection.Root)
	assert.Equal(t, "false", collection.Root.Docs)
	assert.Equal(t, "1", collection.Root.Request.Tests)
	assert.Empty(t, collection.Root.Request.Docs)

	require.Len(t, collection.Items, 1)
	item := collection.Items[0]
	assert.Equal(t, "42", item.UID)
	assert.Equal(t, "true", item.Name)
	assert.True(t, item.IsRequest())

	request := item.Request
	require.NotNil(t, request)
	assert.Equal(t, "GET", request.Method)
	assert.Equal(t, "https://example.com", request.URL)
	assert.Equal(t, "true", request.Tests)
	assert.Empty(t, request.Docs)
	assert.Equal(t, "1.5", request.Description)
	assert.Equal(t, "7", request.Headers[0].Name)
	assert.Equal(t, "v", request.Headers[0].Value.String())
	assert.Empty(t, request.Headers[0].Description)
	assert.Equal(t, ParamTypePath, request.Params[0].Type)
	assert.Equal(t, "1", request.Params[0].Value.String())
	assert.Equal(t, "0", request.Vars.Req[0].Name)
	assert.Equal(t, "1000", request.Script.Req)

	var fields []BrunoFormField
	require.NoError(t, json.Unmarshal(request.Body.Raw("formUrlEncoded"), &fields))
	assert.Equal(t, "9", fields[0].FieldKey())
}

func TestParseBrunoCollectionRejectsStructuralMismatch(t *testing.T) {
	_, err := ParseBrunoCollection([]byte(`{"name": "x", "items": {"type": "folder"}}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse Bruno collection")
}

package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantString string
		wantTruthy bool
		defined    bool
	}{
		{name: "string", raw: `"hello"`, wantString: "hello", wantTruthy: true, defined: true},
		{name: "empty string", raw: `""`, wantString: "", wantTruthy: false, defined: true},
		{name: "escaped string", raw: `"a\"b"`, wantString: `a"b`, wantTruthy: true, defined: true},
		{name: "number", raw: `42`, wantString: "42", wantTruthy: true, defined: true},
		{name: "zero", raw: `0`, wantString: "0", wantTruthy: false, defined: true},
		{name: "float zero", raw: `0.0`, wantString: "0", wantTruthy: false, defined: true},
		{name: "negative zero", raw: `-0`, wantString: "0", wantTruthy: false, defined: true},
		{name: "trailing zero fraction", raw: `1.0`, wantString: "1", wantTruthy: true, defined: true},
		{name: "fraction", raw: `2.50`, wantString: "2.5", wantTruthy: true, defined: true},
		{name: "exponent", raw: `1e3`, wantString: "1000", wantTruthy: true, defined: true},
		{name: "negative", raw: `-12.75`, wantString: "-12.75", wantTruthy: true, defined: true},
		{name: "large integer", raw: `123456789012345678901`, wantString: "123456789012345680000", wantTruthy: true, defined: true},
		{name: "huge", raw: `1e21`, wantString: "1e+21", wantTruthy: true, defined: true},
		{name: "tiny", raw: `0.0000001`, wantString: "1e-7", wantTruthy: true, defined: true},
		{name: "small decimal", raw: `0.000001`, wantString: "0.000001", wantTruthy: true, defined: true},
		{name: "true", raw: `true`, wantString: "true", wantTruthy: true, defined: true},
		{name: "false", raw: `false`, wantString: "false", wantTruthy: false, defined: true},
		{name: "null", raw: `null`, wantString: "", wantTruthy: false, defined: false},
		{name: "object", raw: `{ "a" : 1 }`, wantString: `{"a":1}`, wantTruthy: true, defined: true},
		{name: "empty array", raw: `[]`, wantString: `[]`, wantTruthy: true, defined: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var holder struct {
				V Value `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"v":`+tt.raw+`}`), &holder))

			assert.Equal(t, tt.wantString, holder.V.String())
			assert.Equal(t, tt.wantTruthy, holder.V.Truthy())
			assert.Equal(t, tt.defined, holder.V.Defined())
		})
	}
}

func TestValueAbsent(t *testing.T) {
	var holder struct {
		V Value `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &holder))

	assert.False(t, holder.V.Defined())
	assert.Equal(t, "", holder.V.String())
	assert.Equal(t, "fallback", holder.V.Or("fallback"))
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, "x", Text("x").Or("d"))
	assert.Equal(t, "d", Text("").Or("d"))
	assert.Equal(t, "d", Value("false").Or("d"))
	assert.Equal(t, "7", Value("7").Or("d"))
}

func TestValueMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{A: Text("x"), B: nil})
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))
}

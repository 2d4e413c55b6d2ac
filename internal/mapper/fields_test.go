package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

func TestMapVariables(t *testing.T) {
	t.Run("nil and empty", func(t *testing.T) {
		assert.Nil(t, MapVariables(nil))
		assert.Nil(t, MapVariables(&domain.BrunoVars{}))
	})

	t.Run("first occurrence wins across req then res", func(t *testing.T) {
		got := MapVariables(&domain.BrunoVars{
			Req: []domain.BrunoVariable{
				{Name: "host", Value: domain.Text("a.example.com")},
				{Name: "port", Value: domain.Value("8080")},
				{Name: "host", Value: domain.Text("b.example.com")},
			},
			Res: []domain.BrunoVariable{
				{Name: "port", Value: domain.Text("9090")},
				{Name: "token", Type: "secret", Description: "set after login"},
			},
		})

		assert.Equal(t, []domain.PostmanVariable{
			{Key: "host", Value: "a.example.com", Type: "default"},
			{Key: "port", Value: "8080", Type: "default"},
			{Key: "token", Value: "", Type: "secret", Description: "set after login"},
		}, got)
	})
}

func TestMapHeaders(t *testing.T) {
	enabled := true
	disabled := false

	got := MapHeaders([]domain.BrunoHeader{
		{Name: "Accept", Value: domain.Text("application/json"), Enabled: &enabled},
		{Name: "", Value: domain.Text("dropped")},
		{Name: "X-Debug", Value: domain.Value("1"), Enabled: &disabled, Description: "debug switch"},
		{Name: "X-Trace", Type: "secret"},
	})

	assert.Equal(t, []domain.PostmanHeader{
		{Key: "Accept", Value: "application/json", Type: "text"},
		{Key: "X-Debug", Value: "1", Disabled: true, Type: "text", Description: "debug switch"},
		{Key: "X-Trace", Value: "", Type: "secret"},
	}, got)

	assert.NotNil(t, MapHeaders(nil))
}

func TestMapNumericValues(t *testing.T) {
	vars := MapVariables(&domain.BrunoVars{
		Req: []domain.BrunoVariable{
			{Name: "retries", Value: domain.Value("3.0")},
			{Name: "timeout", Value: domain.Value("1e3")},
		},
	})
	assert.Equal(t, "3", vars[0].Value)
	assert.Equal(t, "1000", vars[1].Value)

	headers := MapHeaders([]domain.BrunoHeader{{Name: "X-Ratio", Value: domain.Value("0.50")}})
	assert.Equal(t, "0.5", headers[0].Value)
}

package mapper

import (
	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const variableTypeDefault = "default"

// MapVariables flattens req then res variables into Postman variables.
// Names are deduplicated and the first occurrence wins.
func MapVariables(vars *domain.BrunoVars) []domain.PostmanVariable {
	if vars == nil || (len(vars.Req) == 0 && len(vars.Res) == 0) {
		return nil
	}

	all := make([]domain.BrunoVariable, 0, len(vars.Req)+len(vars.Res))
	all = append(all, vars.Req...)
	all = append(all, vars.Res...)

	seen := make(map[string]struct{}, len(all))
	mapped := make([]domain.PostmanVariable, 0, len(all))

	for _, v := range all {
		if _, ok := seen[v.Name]; ok {
			continue
		}

		seen[v.Name] = struct{}{}

		mapped = append(mapped, domain.PostmanVariable{
			Key:         v.Name,
			Value:       v.Value.String(),
			Type:        firstNonEmpty(v.Type, variableTypeDefault),
			Description: v.Description,
		})
	}

	return mapped
}

// MapHeaders converts request headers. Headers without a name are dropped.
func MapHeaders(headers []domain.BrunoHeader) []domain.PostmanHeader {
	mapped := make([]domain.PostmanHeader, 0, len(headers))

	for _, h := range headers {
		if h.Name == "" {
			continue
		}

		mapped = append(mapped, domain.PostmanHeader{
			Key:         h.Name,
			Value:       h.Value.String(),
			Disabled:    h.Disabled(),
			Type:        firstNonEmpty(h.Type, fieldTypeText),
			Description: h.Description,
		})
	}

	return mapped
}

// describe returns docs, falling back to description.
func describe(docs, description string) string {
	return firstNonEmpty(docs, description)
}

func defaultsDescription(d *domain.BrunoDefaults) string {
	if d == nil {
		return ""
	}

	return describe(d.Docs, d.Description)
}

func rootDefaults(root *domain.BrunoRoot) *domain.BrunoDefaults {
	if root == nil {
		return nil
	}

	return root.Request
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

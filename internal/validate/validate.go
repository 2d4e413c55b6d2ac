// Package validate inspects a Bruno collection without converting it.
package validate

import (
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
	"github.com/GabrielNunesIT/bru2postman/internal/mapper"
)

// Report is the outcome of Validate.
type Report struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Stats    Stats    `json:"stats"`
}

// Stats summarizes a collection.
type Stats struct {
	// Items counts top-level items only.
	Items int `json:"items"`

	// Folders and Requests count the whole tree.
	Folders  int `json:"folders"`
	Requests int `json:"requests"`

	// Variables counts root request and response variables, duplicates included.
	Variables int  `json:"variables"`
	HasAuth   bool `json:"hasAuth"`
}

// Validate reports counts and structural problems for collection.
// It never modifies collection.
func Validate(collection *domain.BrunoCollection) Report {
	report := Report{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if collection == nil {
		report.addError("Invalid collection structure")
		return report
	}

	report.Stats.Items = len(collection.Items)
	report.walk(collection.Items, nil)

	if collection.Root != nil && collection.Root.Request != nil {
		root := collection.Root.Request

		if root.Vars != nil {
			report.Stats.Variables = len(root.Vars.Req) + len(root.Vars.Res)
			report.checkDuplicateVars(root.Vars)
		}

		if root.Auth != nil {
			report.Stats.HasAuth = root.Auth.Mode != "" && root.Auth.Mode != mapper.AuthModeNone
			report.checkAuth("collection", root.Auth)
		}
	}

	return report
}

func (r *Report) walk(items []domain.BrunoItem, parents []string) {
	for i := range items {
		item := &items[i]
		path := append(parents[:len(parents):len(parents)], item.Name)
		where := strings.Join(path, " / ")

		switch {
		case item.IsFolder():
			r.Stats.Folders++

			if item.Root != nil && item.Root.Request != nil {
				r.checkAuth(fmt.Sprintf("folder %q", where), item.Root.Request.Auth)
			}

			r.walk(item.Items, path)
		case item.IsRequest():
			r.Stats.Requests++

			if item.Request.URL == "" {
				r.addWarning(fmt.Sprintf("request %q has no URL", where))
			}

			r.checkAuth(fmt.Sprintf("request %q", where), item.Request.Auth)

			if body := item.Request.Body; body != nil && body.Mode != "" && !mapper.KnownBodyMode(body.Mode) {
				r.addWarning(fmt.Sprintf("request %q uses unknown body mode %q, it will be passed through as raw text", where, body.Mode))
			}
		default:
			r.addError(fmt.Sprintf("item %q (type %q) is neither a folder nor a request", where, item.Type))
		}
	}
}

func (r *Report) checkAuth(where string, auth *domain.BrunoAuth) {
	if auth == nil || auth.Mode == "" || mapper.KnownAuthMode(auth.Mode) {
		return
	}

	r.addWarning(fmt.Sprintf("%s uses unknown auth mode %q, its settings will be copied as is", where, auth.Mode))
}

func (r *Report) checkDuplicateVars(vars *domain.BrunoVars) {
	seen := make(map[string]struct{})
	reported := make(map[string]struct{})

	for _, list := range [][]domain.BrunoVariable{vars.Req, vars.Res} {
		for _, v := range list {
			if _, ok := seen[v.Name]; !ok {
				seen[v.Name] = struct{}{}
				continue
			}

			if _, ok := reported[v.Name]; ok {
				continue
			}

			reported[v.Name] = struct{}{}
			r.addWarning(fmt.Sprintf("collection variable %q is defined more than once, the first definition is kept", v.Name))
		}
	}
}

func (r *Report) addError(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}

func (r *Report) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

package mapper

import (
	"regexp"
	"strings"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

type scriptRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// scriptRules rewrite Bruno scripting API calls into their Postman equivalents.
// They run in order, each over the output of the previous one.
//
// Arguments are captured non-greedily, so a call whose arguments contain a
// closing parenthesis or a comma inside a string literal is split at the wrong
// place. Scripts like that need a manual touch-up after conversion.
var scriptRules = []scriptRule{
	// Response
	{regexp.MustCompile(`res\.getBody\(\)`), "pm.response.json()"},
	{regexp.MustCompile(`res\.getJsonBody\(\)`), "pm.response.json()"},
	{regexp.MustCompile(`res\.body`), "pm.response.json()"},
	{regexp.MustCompile(`res\.json`), "pm.response.json()"},
	{regexp.MustCompile(`res\.getStatus\(\)`), "pm.response.code"},
	{regexp.MustCompile(`res\.status`), "pm.response.code"},
	{regexp.MustCompile(`res\.getHeader\((.*?)\)`), "pm.response.headers.get(${1})"},
	{regexp.MustCompile(`res\.headers`), "pm.response.headers"},

	// Variables
	{regexp.MustCompile(`bru\.setVar\((.*?),\s*(.*?)\)`), "pm.collectionVariables.set(${1}, ${2})"},
	{regexp.MustCompile(`bru\.getVar\((.*?)\)`), "pm.collectionVariables.get(${1})"},
	{regexp.MustCompile(`bru\.setEnvVar\((.*?),\s*(.*?)\)`), "pm.environment.set(${1}, ${2})"},
	{regexp.MustCompile(`bru\.getEnvVar\((.*?)\)`), "pm.environment.get(${1})"},
	{regexp.MustCompile(`bru\.setGlobalVar\((.*?),\s*(.*?)\)`), "pm.globals.set(${1}, ${2})"},
	{regexp.MustCompile(`bru\.getGlobalVar\((.*?)\)`), "pm.globals.get(${1})"},

	// Request
	{regexp.MustCompile(`req\.getUrl\(\)`), "pm.request.url.toString()"},
	{regexp.MustCompile(`req\.getMethod\(\)`), "pm.request.method"},
	{regexp.MustCompile(`req\.getHeader\((.*?)\)`), "pm.request.headers.get(${1})"},

	// Tests
	{regexp.MustCompile(`expect\(`), "pm.expect("},
	{regexp.MustCompile(`assert\(`), "pm.assert("},
	{regexp.MustCompile(`test\((.*?),`), "pm.test(${1},"},

	// JSON.stringify(pm.response.text()) is already a string
	{regexp.MustCompile(`JSON\.stringify\(\s*(pm\.response\.text\(\))\s*\)`), "${1}"},
}

// ConvertScript rewrites Bruno script source into Postman script source.
func ConvertScript(script string) string {
	if script == "" {
		return ""
	}

	converted := script
	for _, rule := range scriptRules {
		converted = rule.pattern.ReplaceAllString(converted, rule.replacement)
	}

	return converted
}

// BuildEvents returns up to three events in fixed order: the pre-request
// script, the post-response script and the legacy tests block.
func BuildEvents(script *domain.BrunoScript, tests string) []domain.PostmanEvent {
	var events []domain.PostmanEvent

	if script != nil && script.Req != "" {
		events = append(events, scriptEvent(domain.ListenPrerequest, script.Req))
	}

	if script != nil && script.Res != "" {
		events = append(events, scriptEvent(domain.ListenTest, script.Res))
	}

	if tests != "" {
		events = append(events, scriptEvent(domain.ListenTest, tests))
	}

	return events
}

func scriptEvent(listen, source string) domain.PostmanEvent {
	return domain.PostmanEvent{
		Listen: listen,
		Script: domain.PostmanScript{
			Type: domain.ScriptTypeJavaScript,
			Exec: strings.Split(ConvertScript(source), "\n"),
		},
	}
}

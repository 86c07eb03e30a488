package inspect

import (
	"wampcore/pkg/wamp"
	"wampcore/pkg/wamp/uri"
)

// URIIssue is a URI-bearing field that fails its grammar.
type URIIssue struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Rule  string `json:"rule"`
	Error string `json:"error"`
}

type uriField struct {
	name  string
	value string
	rule  uri.Rule
}

func uriFields(m wamp.Message) []uriField {
	switch v := m.(type) {
	case *wamp.Hello:
		return []uriField{{"realm", v.Realm, uri.URI}}
	case *wamp.Abort:
		return []uriField{{"reason", v.Reason, uri.URI}}
	case *wamp.Goodbye:
		return []uriField{{"reason", v.Reason, uri.URI}}
	case *wamp.Error:
		return []uriField{{"error", v.URI, uri.URI}}
	case *wamp.Publish:
		return []uriField{{"topic", v.Topic, uri.URI}}
	case *wamp.Subscribe:
		return []uriField{{"topic", v.Topic, uri.PatternRule(v.Options)}}
	case *wamp.Call:
		return []uriField{{"procedure", v.Procedure, uri.URI}}
	case *wamp.Register:
		return []uriField{{"procedure", v.Procedure, uri.PatternRule(v.Options)}}
	default:
		return nil
	}
}

// CheckURIs validates every URI field of m.
func CheckURIs(m wamp.Message, strict bool) []URIIssue {
	var issues []URIIssue
	for _, f := range uriFields(m) {
		if err := uri.Validate(f.rule, f.value, strict); err != nil {
			issues = append(issues, URIIssue{Field: f.name, Value: f.value, Rule: f.rule.String(), Error: err.Error()})
		}
	}
	return issues
}

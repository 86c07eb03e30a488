// Package uri checks WAMP names, URIs and patterns against the loose and
// strict grammars and carries the standard error and close URIs.
package uri

import (
	"errors"
	"fmt"
	"regexp"
)

// Rule selects one of the grammars below.
type Rule int

const (
	// Name is a single URI component such as an auth role.
	Name Rule = iota
	// URI is a full dotted URI with no empty components.
	URI
	// Prefix is a dotted URI whose last component may be empty.
	Prefix
	// PrefixOrWildcard allows empty components anywhere, as used by
	// wildcard subscriptions and registrations.
	PrefixOrWildcard
	// WithEmpty is the component rule permitting empty components.
	WithEmpty
	// NoEmpty is the component rule forbidding empty components.
	NoEmpty
)

var ruleNames = map[Rule]string{
	Name:             "name",
	URI:              "uri",
	Prefix:           "prefix",
	PrefixOrWildcard: "prefix_or_wildcard",
	WithEmpty:        "with_empty",
	NoEmpty:          "no_empty",
}

func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// ParseRule maps the names printed by String back to rules.
func ParseRule(s string) (Rule, error) {
	for r, n := range ruleNames {
		if n == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown uri rule %q", s)
}

type grammar struct {
	loose  *regexp.Regexp
	strict *regexp.Regexp
}

var grammars = map[Rule]grammar{
	Name: {
		loose:  regexp.MustCompile(`^[^\s\.#]+$`),
		strict: regexp.MustCompile(`^[\da-z_]+$`),
	},
	URI: {
		loose:  regexp.MustCompile(`^([^\s\.#]+\.)*([^\s\.#]+)$`),
		strict: regexp.MustCompile(`^([\da-z_]+\.)*([\da-z_]+)$`),
	},
	Prefix: {
		loose:  regexp.MustCompile(`^([^\s\.#]+\.)*([^\s\.#]*)$`),
		strict: regexp.MustCompile(`^([\da-z_]+\.)*([\da-z_]*)$`),
	},
	PrefixOrWildcard: {
		loose:  regexp.MustCompile(`^(([^\s\.#]+\.)|\.)*([^\s\.#]+)?$`),
		strict: regexp.MustCompile(`^(([\da-z_]+\.)|\.)*([\da-z_]+)?$`),
	},
	WithEmpty: {
		loose:  regexp.MustCompile(`^(([^\s\.#]+\.)|\.)*([^\s\.#]+)?$`),
		strict: regexp.MustCompile(`^(([\da-z_]+\.)|\.)*([\da-z_]+)?$`),
	},
	NoEmpty: {
		loose:  regexp.MustCompile(`^([^\s\.#]+\.)*([^\s\.#]+)$`),
		strict: regexp.MustCompile(`^([0-9a-z_]+\.)*([0-9a-z_]+)$`),
	},
}

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("uri: invalid")

// Match reports whether s satisfies rule. Unknown rules never match.
func Match(rule Rule, s string, strict bool) bool {
	g, ok := grammars[rule]
	if !ok {
		return false
	}
	if strict {
		return g.strict.MatchString(s)
	}
	return g.loose.MatchString(s)
}

// Validate is Match returning a descriptive error.
func Validate(rule Rule, s string, strict bool) error {
	if Match(rule, s, strict) {
		return nil
	}
	mode := "loose"
	if strict {
		mode = "strict"
	}
	return fmt.Errorf("%w: %q is not a %s %s", ErrInvalid, s, mode, rule)
}

// PatternRule picks the grammar for the topic or procedure of a Subscribe or
// Register from the "match" entry of its options.
func PatternRule(options map[string]any) Rule {
	switch options["match"] {
	case "prefix":
		return Prefix
	case "wildcard":
		return PrefixOrWildcard
	default:
		return URI
	}
}

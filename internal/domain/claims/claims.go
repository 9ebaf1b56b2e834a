// Package claims extracts identity fields from IdP token claims using
// ordered JMESPath strategies. The first expression yielding a non-empty
// string wins, so provider differences are handled by table entries rather
// than code.
package claims

import (
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Field names an identity attribute that can be extracted from claims.
type Field string

const (
	FieldObjectID    Field = "object_id"
	FieldEmail       Field = "email"
	FieldDisplayName Field = "display_name"
	FieldPlant       Field = "plant"
	FieldDepartment  Field = "department"
)

// Claim URIs issued by Microsoft identity platforms in SAML-style tokens.
const (
	ClaimObjectIdentifier = "http://schemas.microsoft.com/identity/claims/objectidentifier"
	ClaimEmailAddress     = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	ClaimName             = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
)

// DefaultStrategies returns the lookup order used when no table is configured.
// Expressions are JMESPath; URI claim names must be quoted identifiers.
func DefaultStrategies() map[Field][]string {
	return map[Field][]string{
		FieldObjectID:    {quote(ClaimObjectIdentifier), "oid", "sub"},
		FieldEmail:       {quote(ClaimEmailAddress), "preferred_username", "email", "name"},
		FieldDisplayName: {quote(ClaimName), "name"},
		FieldPlant:       {"custom_plant", "plant"},
		FieldDepartment:  {"custom_department", "department"},
	}
}

func quote(name string) string { return `"` + name + `"` }

type strategy struct {
	expr string
	path jmespath.JMESPath
}

// Extractor evaluates compiled strategies against a claims map.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	strategies map[Field][]strategy
}

// NewExtractor compiles every expression in table.
func NewExtractor(table map[Field][]string) (*Extractor, error) {
	e := &Extractor{strategies: make(map[Field][]strategy, len(table))}
	for field, exprs := range table {
		for _, expr := range exprs {
			expr = strings.TrimSpace(expr)
			if expr == "" {
				continue
			}
			path, err := jmespath.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile %s strategy %q: %w", field, expr, err)
			}
			e.strategies[field] = append(e.strategies[field], strategy{expr: expr, path: path})
		}
	}
	return e, nil
}

var defaultExtractor = mustDefault()

func mustDefault() *Extractor {
	e, err := NewExtractor(DefaultStrategies())
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the extractor built from DefaultStrategies.
func Default() *Extractor { return defaultExtractor }

// Strategies returns the expressions tried for field, in order.
func (e *Extractor) Strategies(field Field) []string {
	out := make([]string, 0, len(e.strategies[field]))
	for _, s := range e.strategies[field] {
		out = append(out, s.expr)
	}
	return out
}

// Value returns the first non-empty string produced by field's strategies.
// Evaluation errors and non-string results are skipped.
func (e *Extractor) Value(claims map[string]any, field Field) string {
	if len(claims) == 0 {
		return ""
	}
	for _, s := range e.strategies[field] {
		res, err := s.path.Search(claims)
		if err != nil {
			continue
		}
		if v := asString(res); v != "" {
			return v
		}
	}
	return ""
}

// Principal is the set of identity fields resolved from one claims map.
type Principal struct {
	ObjectID    string
	Email       string
	DisplayName string
	Plant       string
	Department  string
}

// Resolve extracts every known field from claims.
func (e *Extractor) Resolve(claims map[string]any) Principal {
	return Principal{
		ObjectID:    e.Value(claims, FieldObjectID),
		Email:       e.Value(claims, FieldEmail),
		DisplayName: e.Value(claims, FieldDisplayName),
		Plant:       e.Value(claims, FieldPlant),
		Department:  e.Value(claims, FieldDepartment),
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		// multi-valued claims: first usable entry
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Package validation checks console form input against JSON schemas before
// it is sent upstream.
package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Form names one schema.
type Form string

const (
	FormLogin    Form = "login"
	FormRegister Form = "register"
	FormTicket   Form = "ticket"
	FormContact  Form = "contact"
	FormArticle  Form = "article"
	FormAgent    Form = "agent"
	FormMessage  Form = "message"
	FormInvite   Form = "invite"
)

// Rule is the failed constraint, reduced to what the UI distinguishes.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleEmail    Rule = "email"
	RuleTooShort Rule = "tooShort"
	RuleTooLong  Rule = "tooLong"
	RuleInvalid  Rule = "invalid"
)

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Errors is the set of failures of one form submission.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields maps field name to rule, first failure wins.
func (e Errors) Fields() map[string]Rule {
	out := make(map[string]Rule, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Rule
		}
	}
	return out
}

// Validator holds the compiled schemas.
type Validator struct {
	mu      sync.RWMutex
	schemas map[Form]*gojsonschema.Schema
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns the validator over the embedded schemas.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New()
	})
	return defaultValidator, defaultErr
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[Form]*gojsonschema.Schema)}

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[Form(strings.TrimSuffix(name, ".json"))] = schema
	}
	return v, nil
}

// Forms lists the known schemas.
func (v *Validator) Forms() []Form {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Form, 0, len(v.schemas))
	for f := range v.schemas {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate marshals doc to JSON and checks it against form's schema. It
// returns Errors when the document is rejected.
func (v *Validator) Validate(form Form, doc interface{}) error {
	v.mu.RLock()
	schema, ok := v.schemas[form]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no schema registered for form %q", form)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s form: %w", form, err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make(Errors, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, FieldError{
			Field:   fieldOf(re),
			Rule:    ruleOf(re),
			Message: re.Description(),
		})
	}
	return errs
}

// fieldOf names the offending top-level property. Required errors are
// reported on the object, with the missing name in the details.
func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	field := re.Field()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[:i]
	}
	return field
}

func ruleOf(re gojsonschema.ResultError) Rule {
	switch re.Type() {
	case "required":
		return RuleRequired
	case "string_gte":
		if fmt.Sprint(re.Details()["min"]) == "1" {
			return RuleRequired
		}
		return RuleTooShort
	case "format":
		return RuleEmail
	case "string_lte", "array_max_items":
		return RuleTooLong
	default:
		return RuleInvalid
	}
}

package web

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

// fieldLabels maps form fields to the translation key of their label.
var fieldLabels = map[validation.Form]map[string]string{
	validation.FormLogin:    {"email": "auth.email", "password": "auth.password"},
	validation.FormRegister: {"email": "auth.email", "password": "auth.password", "name": "auth.name"},
	validation.FormTicket: {
		"subject": "tickets.subject", "description": "tickets.description", "priority": "tickets.priority",
		"customerId": "tickets.customer", "tags": "tickets.tags",
	},
	validation.FormContact: {
		"name": "contacts.name", "email": "contacts.email", "phone": "contacts.phone",
		"company": "contacts.company", "notes": "contacts.notes", "tags": "contacts.tags",
	},
	validation.FormArticle: {"title": "kb.articleTitle", "category": "kb.category", "content": "kb.content"},
	validation.FormAgent: {
		"name": "aiAgent.agentName", "description": "aiAgent.description",
		"model": "aiAgent.model", "temperature": "aiAgent.temperature", "status": "aiAgent.status",
	},
	validation.FormMessage: {"content": "tickets.reply"},
	validation.FormInvite:  {"email": "contacts.email", "role": "settings.role"},
}

// formState is a submitted form re-rendered with its errors.
type formState struct {
	Values  map[string]string
	Errors  map[string]string
	Message string
}

// context returns the template variables of the form.
func (f formState) context() pongo2.Context {
	return pongo2.Context{"Form": f.Values, "Errors": f.Errors, "FormError": f.Message}
}

func (f formState) failed() bool {
	return len(f.Errors) > 0 || f.Message != ""
}

// postedForm collects the named fields, trimmed.
func postedForm(c *gin.Context, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = strings.TrimSpace(c.PostForm(f))
	}
	return out
}

// splitTags turns "a, b,,c" into [a b c].
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// validate checks doc against form and returns the translated errors.
func (s *Server) validate(c *gin.Context, form validation.Form, doc interface{}, values map[string]string) formState {
	state := formState{Values: values}
	if err := s.deps.Validator.Validate(form, doc); err != nil {
		s.explain(c, form, err, &state)
	}
	return state
}

// explain converts a local or upstream failure into form errors. Local
// schema failures are per field; an upstream 4xx shows its message; other
// failures show a generic line.
func (s *Server) explain(c *gin.Context, form validation.Form, err error, state *formState) {
	var verrs validation.Errors
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &verrs):
		state.Errors = make(map[string]string)
		for field, rule := range verrs.Fields() {
			label := field
			if key, ok := fieldLabels[form][field]; ok {
				label = s.t(c, key)
			}
			state.Errors[field] = s.t(c, "validation."+string(rule), label)
		}
	case apiclient.IsValidation(err) && errors.As(err, &apiErr):
		state.Message = s.t(c, "validation.rejected", apiErr.Message)
	default:
		s.logger.Warn("form submission failed",
			slog.String("form", string(form)),
			slog.String("kind", apiclient.Kind(err)),
			slog.Any("error", err))
		state.Message = s.t(c, "errors.unexpected")
	}
}

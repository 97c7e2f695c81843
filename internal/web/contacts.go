package web

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/i18n"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/pages"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

// ContactRow is a contact with its humanized last contact time.
type ContactRow struct {
	models.Contact
	LastContactAgo string
}

func (s *Server) contactRow(lang string, contact models.Contact) ContactRow {
	row := ContactRow{Contact: contact, LastContactAgo: contact.LastContact}
	if t, ok := contact.LastContactTime(); ok {
		row.LastContactAgo = i18n.TimeAgo(lang, t, s.now())
	}
	return row
}

func (s *Server) handleContacts(c *gin.Context) {
	ws := workspaceOf(c)
	if !load(c, ws.Pages.Contacts, pages.ContactFilter{Search: c.Query("search")}) {
		return
	}
	s.renderContacts(c, http.StatusOK, formState{}, "")
}

func (s *Server) renderContacts(c *gin.Context, code int, form formState, flash string) {
	v := workspaceOf(c).Pages.Contacts.View()
	lang := s.lang(c)

	rows := make([]ContactRow, 0, len(v.Items))
	for _, contact := range v.Items {
		rows = append(rows, s.contactRow(lang, contact))
	}
	var selected *ContactRow
	if v.Selected != nil {
		row := s.contactRow(lang, *v.Selected)
		selected = &row
	}

	data := form.context()
	data.Update(pongo2.Context{
		"Demo":       v.Source == pages.SourceMock,
		"Flash":      flash,
		"Filter":     pongo2.Context{"Search": v.Filter.Search},
		"Items":      rows,
		"Count":      len(rows),
		"Selected":   selected,
		"SelectedID": selectedID(v.Selected),
		"SelectBase": selectBase("/contacts", url.Values{"search": {v.Filter.Search}}),
	})
	s.render(c, code, "pages/contacts.pongo2", "contacts.title", data)
}

func (s *Server) handleCreateContact(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Contacts)

	values := postedForm(c, "name", "email", "phone", "company", "notes", "tags")
	req := models.ContactCreateRequest{
		Name:    values["name"],
		Email:   values["email"],
		Phone:   values["phone"],
		Company: values["company"],
		Notes:   values["notes"],
		Tags:    splitTags(values["tags"]),
	}

	form := s.validate(c, validation.FormContact, req, values)
	if form.failed() {
		s.renderContacts(c, http.StatusUnprocessableEntity, form, "")
		return
	}

	created, err := s.deps.Services.Contacts.Create(ctx, req)
	if err != nil {
		s.explain(c, validation.FormContact, err, &form)
		s.renderContacts(c, http.StatusUnprocessableEntity, form, "")
		return
	}

	ws.Pages.Contacts.Merge(*created)
	ws.UI.Contacts.Add(*created)
	s.logger.Info("contact created", slog.String("contact", created.ID))
	s.renderContacts(c, http.StatusCreated, formState{}, s.t(c, "common.saved"))
}

package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/pages"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

// ensureLoaded runs a first load for a page that has never shown a list,
// so a form posted straight after sign-in merges into real data.
func ensureLoaded[T pages.Identifiable, F any](ctx context.Context, p *pages.Page[T, F]) {
	if v := p.View(); v.State == pages.StateLoading && len(v.Items) == 0 {
		p.Load(ctx, v.Filter)
	}
}

// load runs p.Load and applies the ?selected= parameter. It reports false
// when the browser went away and nothing should be rendered.
func load[T pages.Identifiable, F any](c *gin.Context, p *pages.Page[T, F], filter F) bool {
	result := p.Load(c.Request.Context(), filter)
	if result.Stale && c.Request.Context().Err() != nil {
		return false
	}
	if id := c.Query("selected"); id != "" {
		p.Select(id)
	}
	return true
}

func selectedID[T pages.Identifiable](selected *T) string {
	if selected == nil {
		return ""
	}
	return (*selected).GetID()
}

func ticketFilterFrom(c *gin.Context) pages.TicketFilter {
	f := pages.TicketFilter{Search: c.Query("search")}
	if status, ok, err := models.ParseTicketStatus(c.Query("status")); err == nil && ok {
		f.Status = status
	}
	return f
}

func (s *Server) handleTickets(c *gin.Context) {
	ws := workspaceOf(c)
	if !load(c, ws.Pages.Tickets, ticketFilterFrom(c)) {
		return
	}
	s.renderTickets(c, http.StatusOK, ticketView{})
}

// ticketView carries the outcome of a ticket action into the page.
type ticketView struct {
	create formState
	reply  formState
	flash  string
}

func (s *Server) renderTickets(c *gin.Context, code int, tv ticketView) {
	v := workspaceOf(c).Pages.Tickets.View()

	statusOptions := []Option{{Value: "all", Selected: v.Filter.Status == ""}}
	statuses := make([]string, 0, len(models.TicketStatuses))
	for _, st := range models.TicketStatuses {
		statusOptions = append(statusOptions, Option{Value: string(st), Selected: st == v.Filter.Status})
		statuses = append(statuses, string(st))
	}

	priority := tv.create.Values["priority"]
	if priority == "" {
		priority = string(models.TicketPriorityMedium)
	}
	priorityOptions := make([]Option, 0, len(models.TicketPriorities))
	for _, p := range models.TicketPriorities {
		priorityOptions = append(priorityOptions, Option{Value: string(p), Selected: string(p) == priority})
	}

	selectedStatus := ""
	if v.Selected != nil {
		selectedStatus = string(v.Selected.Status)
	}

	data := tv.create.context()
	data.Update(pongo2.Context{
		"Demo":            v.Source == pages.SourceMock,
		"Flash":           tv.flash,
		"Filter":          pongo2.Context{"Search": v.Filter.Search, "Status": string(v.Filter.Status)},
		"Items":           v.Items,
		"Count":           len(v.Items),
		"Selected":        v.Selected,
		"SelectedID":      selectedID(v.Selected),
		"SelectedStatus":  selectedStatus,
		"SelectBase":      selectBase("/tickets", url.Values{"search": {v.Filter.Search}, "status": {string(v.Filter.Status)}}),
		"StatusOptions":   statusOptions,
		"Statuses":        statuses,
		"PriorityOptions": priorityOptions,
		"Reply":           tv.reply.Values,
		"ReplyErrors":     tv.reply.Errors,
	})
	if tv.reply.Message != "" && tv.flash == "" {
		data["Flash"] = tv.reply.Message
	}
	s.render(c, code, "pages/tickets.pongo2", "tickets.title", data)
}

func (s *Server) handleCreateTicket(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Tickets)

	values := postedForm(c, "subject", "description", "priority", "customerId", "tags")
	req := models.TicketCreateRequest{
		Subject:     values["subject"],
		Description: values["description"],
		Priority:    models.TicketPriority(values["priority"]),
		CustomerID:  values["customerId"],
		Tags:        splitTags(values["tags"]),
	}
	if req.Priority == "" {
		req.Priority = models.TicketPriorityMedium
	}

	form := s.validate(c, validation.FormTicket, req, values)
	if form.failed() {
		s.renderTickets(c, http.StatusUnprocessableEntity, ticketView{create: form})
		return
	}

	created, err := s.deps.Services.Tickets.Create(ctx, req)
	if err != nil {
		s.explain(c, validation.FormTicket, err, &form)
		s.renderTickets(c, http.StatusUnprocessableEntity, ticketView{create: form})
		return
	}

	ws.Pages.Tickets.Merge(*created)
	ws.UI.Tickets.Add(*created)
	s.logger.Info("ticket created", slog.String("ticket", created.ID))
	s.renderTickets(c, http.StatusCreated, ticketView{flash: s.t(c, "common.saved")})
}

func (s *Server) handleTicketStatus(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Tickets)
	id := c.Param("id")

	status := models.TicketStatus(c.PostForm("status"))
	if !status.Valid() {
		s.renderTickets(c, http.StatusBadRequest, ticketView{flash: s.t(c, "validation.invalid", s.t(c, "tickets.status"))})
		return
	}

	updated, err := s.deps.Services.Tickets.Update(ctx, id, models.TicketUpdateRequest{Status: &status})
	if err != nil {
		var state formState
		s.explain(c, validation.FormTicket, err, &state)
		s.renderTickets(c, http.StatusUnprocessableEntity, ticketView{flash: state.Message})
		return
	}

	replace := func(models.Ticket) models.Ticket { return *updated }
	ws.Pages.Tickets.Patch(id, replace)
	ws.Pages.Tickets.Select(id)
	ws.UI.Tickets.Update(id, replace)
	s.renderTickets(c, http.StatusOK, ticketView{flash: s.t(c, "common.saved")})
}

func (s *Server) handleTicketReply(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Tickets)
	id := c.Param("id")
	ws.Pages.Tickets.Select(id)

	values := postedForm(c, "content")
	msg := models.TicketMessage{Content: values["content"], IsInternal: c.PostForm("internal") == "true"}
	if user, ok := middleware.GetCurrentUser(c); ok {
		msg.SenderID = user.ID
	}

	form := s.validate(c, validation.FormMessage, msg, values)
	if form.failed() {
		s.renderTickets(c, http.StatusUnprocessableEntity, ticketView{reply: form})
		return
	}

	result, err := s.deps.Services.Tickets.AddMessage(ctx, id, msg)
	if err != nil {
		s.explain(c, validation.FormMessage, err, &form)
		s.renderTickets(c, http.StatusUnprocessableEntity, ticketView{reply: form})
		return
	}

	count := func(t models.Ticket) models.Ticket {
		t.Messages = result.Messages
		return t
	}
	ws.Pages.Tickets.Patch(id, count)
	ws.UI.Tickets.Update(id, count)
	s.renderTickets(c, http.StatusOK, ticketView{flash: s.t(c, "common.saved")})
}

package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/chat"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/pages"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

func (s *Server) handleAgents(c *gin.Context) {
	ws := workspaceOf(c)
	if !load(c, ws.Pages.Agents, pages.AgentFilter{Search: c.Query("search")}) {
		return
	}
	s.renderAgents(c, http.StatusOK, agentView{})
}

// agentView carries the outcome of an agent action into the page.
type agentView struct {
	create  formState
	flash   string
	chatErr string
}

func (s *Server) renderAgents(c *gin.Context, code int, av agentView) {
	ws := workspaceOf(c)
	v := ws.Pages.Agents.View()

	var messages []models.ChatMessage
	if v.Selected != nil {
		messages = s.deps.Chat.Open(ws.Chats, *v.Selected).Messages()
	}

	data := av.create.context()
	data.Update(pongo2.Context{
		"Demo":       v.Source == pages.SourceMock,
		"Flash":      av.flash,
		"Filter":     pongo2.Context{"Search": v.Filter.Search},
		"Items":      v.Items,
		"Count":      len(v.Items),
		"Selected":   v.Selected,
		"SelectedID": selectedID(v.Selected),
		"SelectBase": selectBase("/ai-agent", url.Values{"search": {v.Filter.Search}}),
		"Messages":   messages,
		"ChatError":  av.chatErr,
	})
	s.render(c, code, "pages/ai_agent.pongo2", "aiAgent.title", data)
}

// findAgent returns the displayed agent with id, asking the upstream when
// the list does not hold it.
func (s *Server) findAgent(ctx context.Context, ws *Workspace, id string) (models.AIAgent, bool) {
	ensureLoaded(ctx, ws.Pages.Agents)
	if agent, ok := ws.Pages.Agents.Find(id); ok {
		return agent, true
	}
	agent, err := s.deps.Services.AIAgents.Get(ctx, id)
	if err != nil {
		return models.AIAgent{}, false
	}
	return *agent, true
}

func (s *Server) handleCreateAgent(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Agents)

	values := postedForm(c, "name", "description", "model", "temperature")
	req := models.AgentCreateRequest{
		Name:        values["name"],
		Description: values["description"],
		Model:       values["model"],
		Status:      models.AgentStatusInactive,
	}

	var badTemperature bool
	if raw := values["temperature"]; raw != "" {
		temp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badTemperature = true
		} else {
			req.Temperature = &temp
		}
	}

	form := s.validate(c, validation.FormAgent, req, values)
	if badTemperature {
		if form.Errors == nil {
			form.Errors = make(map[string]string)
		}
		form.Errors["temperature"] = s.t(c, "validation.invalid", s.t(c, "aiAgent.temperature"))
	}
	if form.failed() {
		s.renderAgents(c, http.StatusUnprocessableEntity, agentView{create: form})
		return
	}

	created, err := s.deps.Services.AIAgents.Create(ctx, req)
	if err != nil {
		s.explain(c, validation.FormAgent, err, &form)
		s.renderAgents(c, http.StatusUnprocessableEntity, agentView{create: form})
		return
	}

	ws.Pages.Agents.Merge(*created)
	ws.UI.Agents.Add(*created)
	s.logger.Info("agent created", slog.String("agent", created.ID))
	s.renderAgents(c, http.StatusCreated, agentView{flash: s.t(c, "common.saved")})
}

func (s *Server) handleAgentStatus(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	id := c.Param("id")

	agent, ok := s.findAgent(ctx, ws, id)
	if !ok {
		s.errorPage(c, http.StatusNotFound, "errors.notFound")
		return
	}

	status := agent.Status.Toggled()
	updated, err := s.deps.Services.AIAgents.Update(ctx, id, models.AgentUpdateRequest{Status: &status})
	if err != nil {
		var state formState
		s.explain(c, validation.FormAgent, err, &state)
		s.renderAgents(c, http.StatusUnprocessableEntity, agentView{flash: state.Message})
		return
	}

	replace := func(models.AIAgent) models.AIAgent { return *updated }
	ws.Pages.Agents.Patch(id, replace)
	ws.Pages.Agents.Select(id)
	ws.UI.Agents.Update(id, replace)
	s.renderAgents(c, http.StatusOK, agentView{flash: s.t(c, "common.saved")})
}

func (s *Server) handleAgentChat(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	id := c.Param("id")

	agent, ok := s.findAgent(ctx, ws, id)
	if !ok {
		s.errorPage(c, http.StatusNotFound, "errors.notFound")
		return
	}
	ws.Pages.Agents.Select(id)

	conv := s.deps.Chat.Open(ws.Chats, agent)
	_, _, err := s.deps.Chat.Send(ctx, agent, conv, c.PostForm("message"))
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
	case apiclient.IsUnauthorized(err):
		s.toLogin(c)
		return
	case ctx.Err() != nil:
		return
	default:
		s.renderAgents(c, http.StatusBadGateway, agentView{chatErr: s.t(c, "errors.unexpected")})
		return
	}
	s.renderAgents(c, http.StatusOK, agentView{})
}

func (s *Server) handleAgentChatReset(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	id := c.Param("id")

	agent, ok := s.findAgent(ctx, ws, id)
	if !ok {
		s.errorPage(c, http.StatusNotFound, "errors.notFound")
		return
	}
	ws.Pages.Agents.Select(id)
	s.deps.Chat.Restart(ws.Chats, agent)
	s.renderAgents(c, http.StatusOK, agentView{})
}

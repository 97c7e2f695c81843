package pages

import (
	"context"
	"log/slog"

	"github.com/gotrs-io/gotrs-console/internal/mocks"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/services"
	"github.com/gotrs-io/gotrs-console/internal/store"
)

// Page types of the four resource pages.
type (
	TicketsPage  = Page[models.Ticket, TicketFilter]
	ContactsPage = Page[models.Contact, ContactFilter]
	ArticlesPage = Page[models.KnowledgeArticle, ArticleFilter]
	AgentsPage   = Page[models.AIAgent, AgentFilter]
)

// Set is one browser session's resource pages.
type Set struct {
	Tickets  *TicketsPage
	Contacts *ContactsPage
	Articles *ArticlesPage
	Agents   *AgentsPage
}

// Deps are shared by every session's pages.
type Deps struct {
	Services *services.Services
	Mocks    *mocks.Dataset
	Observer Observer
	Logger   *slog.Logger
}

// NewSet builds the pages of one session. Applied lists are mirrored into
// ui so the cached collections follow what is displayed.
func NewSet(deps Deps, ui *store.UIStore) *Set {
	svc, data := deps.Services, deps.Mocks

	return &Set{
		Tickets: New(Config[models.Ticket, TicketFilter]{
			Name: "tickets",
			Load: func(ctx context.Context, f TicketFilter) ([]models.Ticket, error) {
				resp, err := svc.Tickets.List(ctx, models.TicketListOptions{Status: f.Status, Search: f.Search})
				if err != nil {
					return nil, err
				}
				return resp.Data, nil
			},
			Mock:     data.TicketList,
			Match:    MatchTicket,
			OnApply:  func(items []models.Ticket, _ Source) { ui.Tickets.Set(items) },
			Observer: deps.Observer,
			Logger:   deps.Logger,
		}),
		Contacts: New(Config[models.Contact, ContactFilter]{
			Name: "contacts",
			Load: func(ctx context.Context, f ContactFilter) ([]models.Contact, error) {
				resp, err := svc.Contacts.List(ctx, models.ContactListOptions{Search: f.Search})
				if err != nil {
					return nil, err
				}
				return resp.Data, nil
			},
			Mock:     data.ContactList,
			Match:    MatchContact,
			OnApply:  func(items []models.Contact, _ Source) { ui.Contacts.Set(items) },
			Observer: deps.Observer,
			Logger:   deps.Logger,
		}),
		Articles: New(Config[models.KnowledgeArticle, ArticleFilter]{
			Name: "knowledge-base",
			Load: func(ctx context.Context, f ArticleFilter) ([]models.KnowledgeArticle, error) {
				resp, err := svc.KnowledgeBase.List(ctx, models.ArticleListOptions{Category: f.Category, Search: f.Search})
				if err != nil {
					return nil, err
				}
				return resp.Data, nil
			},
			Mock:     data.ArticleList,
			Match:    MatchArticle,
			OnApply:  func(items []models.KnowledgeArticle, _ Source) { ui.Articles.Set(items) },
			Observer: deps.Observer,
			Logger:   deps.Logger,
		}),
		Agents: New(Config[models.AIAgent, AgentFilter]{
			Name: "ai-agent",
			Load: func(ctx context.Context, f AgentFilter) ([]models.AIAgent, error) {
				// The agents endpoint has no search parameter; the page
				// narrows the live list by name and description itself.
				resp, err := svc.AIAgents.List(ctx, "")
				if err != nil {
					return nil, err
				}
				out := make([]models.AIAgent, 0, len(resp.Data))
				for _, a := range resp.Data {
					if MatchAgent(a, f) {
						out = append(out, a)
					}
				}
				return out, nil
			},
			Mock:     data.AgentList,
			Match:    MatchAgent,
			OnApply:  func(items []models.AIAgent, _ Source) { ui.Agents.Set(items) },
			Observer: deps.Observer,
			Logger:   deps.Logger,
		}),
	}
}

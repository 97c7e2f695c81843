package pages

import (
	"strings"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

// containsFold is a case-insensitive substring test. An empty needle
// matches everything.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, needle) {
			return true
		}
	}
	return false
}

// TicketFilter narrows the ticket list. An empty Status means all.
type TicketFilter struct {
	Search string
	Status models.TicketStatus
}

// MatchTicket matches on id or subject and on status.
func MatchTicket(t models.Ticket, f TicketFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return anyContainsFold(f.Search, t.ID, t.Subject)
}

// ContactFilter narrows the contact list.
type ContactFilter struct {
	Search string
}

// MatchContact matches on name, email or company.
func MatchContact(c models.Contact, f ContactFilter) bool {
	return anyContainsFold(f.Search, c.Name, c.Email, c.Company)
}

// ArticleFilter narrows the article list. An empty Category means all.
type ArticleFilter struct {
	Search   string
	Category string
}

// MatchArticle matches on title and on category.
func MatchArticle(a models.KnowledgeArticle, f ArticleFilter) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return containsFold(a.Title, f.Search)
}

// AgentFilter narrows the agent list.
type AgentFilter struct {
	Search string
}

// MatchAgent matches on name or description.
func MatchAgent(a models.AIAgent, f AgentFilter) bool {
	return anyContainsFold(f.Search, a.Name, a.Description)
}

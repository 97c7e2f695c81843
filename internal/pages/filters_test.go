package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

func TestMatchers(t *testing.T) {
	ticket := models.Ticket{ID: "TK-1002", Subject: "Billing inquiry for March", Status: models.TicketStatusPending}
	contact := models.Contact{Name: "Mike Chen", Email: "mike.chen@example.com", Company: "Startup Inc"}
	article := models.KnowledgeArticle{Title: "Refund and Return Policy", Category: "Returns"}
	agent := models.AIAgent{Name: "Sales Assistant", Description: "Helps with product recommendations"}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"ticket by id", MatchTicket(ticket, TicketFilter{Search: "tk-1002"}), true},
		{"ticket by subject", MatchTicket(ticket, TicketFilter{Search: "MARCH"}), true},
		{"ticket wrong status", MatchTicket(ticket, TicketFilter{Status: models.TicketStatusOpen}), false},
		{"ticket all statuses", MatchTicket(ticket, TicketFilter{}), true},
		{"ticket description ignored", MatchTicket(models.Ticket{Description: "charged twice"}, TicketFilter{Search: "twice"}), false},
		{"contact by company", MatchContact(contact, ContactFilter{Search: "startup"}), true},
		{"contact by email", MatchContact(contact, ContactFilter{Search: "CHEN@"}), true},
		{"contact no match", MatchContact(contact, ContactFilter{Search: "sarah"}), false},
		{"article by title", MatchArticle(article, ArticleFilter{Search: "refund"}), true},
		{"article other category", MatchArticle(article, ArticleFilter{Category: "Billing"}), false},
		{"article category only", MatchArticle(article, ArticleFilter{Category: "Returns"}), true},
		{"agent by description", MatchAgent(agent, AgentFilter{Search: "recommend"}), true},
		{"agent no match", MatchAgent(agent, AgentFilter{Search: "billing"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

package mocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

func TestLoad(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	t.Run("tickets", func(t *testing.T) {
		require.Len(t, d.Tickets, 5)
		assert.Equal(t, "TK-1001", d.Tickets[0].ID)
		assert.Equal(t, "Billing inquiry for March", d.Tickets[1].Subject)
		assert.Equal(t, models.TicketStatusPending, d.Tickets[1].Status)
		assert.Equal(t, models.TicketPriorityUrgent, d.Tickets[3].Priority)
		assert.Equal(t, "2", d.Tickets[2].AssigneeID)
		assert.False(t, d.Tickets[0].IsAssigned())
		assert.Equal(t, 10, d.Tickets[0].CreatedAt.Hour())
	})

	t.Run("contacts in source order", func(t *testing.T) {
		names := make([]string, 0, len(d.Contacts))
		for _, c := range d.Contacts {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"John Smith", "Sarah Johnson", "Mike Chen", "Emily Davis", "Alex Wang"}, names)
		assert.Equal(t, "+1 234-567-8905", d.Contacts[4].Phone)
		assert.Equal(t, "2024-02-08", d.Contacts[0].LastContact)
	})

	t.Run("articles and categories", func(t *testing.T) {
		require.Len(t, d.Articles, 5)
		assert.False(t, d.Articles[3].Published)
		assert.Equal(t, 2156, d.Articles[2].Views)
		require.Len(t, d.Categories, 6)
		assert.Equal(t, models.Category{Name: "Technical", Count: 18, Icon: "⚙️"}, d.Categories[5])
	})

	t.Run("agents and responses", func(t *testing.T) {
		require.Len(t, d.Agents, 4)
		assert.Equal(t, models.AgentStatusInactive, d.Agents[2].Status)
		assert.Equal(t, 0.7, d.Agents[0].Temperature)
		for _, a := range d.Agents {
			assert.Len(t, d.Responses[a.Name], 5, a.Name)
		}
		assert.Contains(t, d.FallbackResponse, "Could you please rephrase?")
	})

	t.Run("reports", func(t *testing.T) {
		assert.Equal(t, 2023, d.Dashboard.TotalTickets)
		assert.Equal(t, 2.5, d.Dashboard.AvgResponseTime)
		require.Len(t, d.Dashboard.TicketTrend, 7)
		require.Len(t, d.Volume.Data, 6)
		assert.Equal(t, 410, d.Volume.Data[5].Resolved)
		assert.Equal(t, 1.9, d.ResponseTime.Data[5].AvgTime)
		assert.Equal(t, "#ef4444", d.Satisfaction.Distribution[4].Color)
		assert.Equal(t, 97.1, d.ResolutionRate.ByPriority[models.TicketPriorityUrgent])
		require.Len(t, d.RecentTickets, 4)
	})

	t.Run("settings", func(t *testing.T) {
		assert.Equal(t, "zh", d.General.Language)
		assert.True(t, d.Integrations["slack"].Connected)
		assert.Len(t, d.Team.Members, 3)
		assert.Equal(t, models.QuotaLimit("10000"), d.Billing.Usage.APICalls.Limit)
	})
}

func TestDashboardVolume(t *testing.T) {
	d := MustLoad()
	volume := d.DashboardVolume()
	require.Len(t, volume.Data, 7)
	assert.Equal(t, models.VolumePoint{Month: "01-08", Tickets: 45, Resolved: 36}, volume.Data[0])
	assert.Equal(t, models.VolumePoint{Month: "03-08", Tickets: 38, Resolved: 30}, volume.Data[2])
}

func TestListsAreCopies(t *testing.T) {
	d := MustLoad()
	tickets := d.TicketList()
	tickets[0].Subject = "changed"
	assert.Equal(t, "Unable to login to account", d.Tickets[0].Subject)
}

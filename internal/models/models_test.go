package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTicketStatus(t *testing.T) {
	t.Run("Valid accepts the closed set", func(t *testing.T) {
		for _, s := range TicketStatuses {
			assert.True(t, s.Valid(), s)
		}
		assert.False(t, TicketStatus("archived").Valid())
		assert.False(t, TicketStatus("").Valid())
	})

	t.Run("ParseTicketStatus", func(t *testing.T) {
		tests := []struct {
			in      string
			want    TicketStatus
			ok      bool
			wantErr bool
		}{
			{in: "", ok: false},
			{in: "all", ok: false},
			{in: "open", want: TicketStatusOpen, ok: true},
			{in: "closed", want: TicketStatusClosed, ok: true},
			{in: "OPEN", wantErr: true},
			{in: "archived", wantErr: true},
		}
		for _, tt := range tests {
			got, ok, err := ParseTicketStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err, tt.in)
				continue
			}
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.ok, ok, tt.in)
			assert.Equal(t, tt.want, got, tt.in)
		}
	})

	t.Run("priorities are ordered low to urgent", func(t *testing.T) {
		assert.Equal(t, TicketPriorityLow, TicketPriorities[0])
		assert.Equal(t, TicketPriorityUrgent, TicketPriorities[len(TicketPriorities)-1])
		assert.False(t, TicketPriority("critical").Valid())
	})
}

func TestAgentStatus(t *testing.T) {
	assert.Equal(t, AgentStatusInactive, AgentStatusActive.Toggled())
	assert.Equal(t, AgentStatusActive, AgentStatusInactive.Toggled())
	assert.Equal(t, AgentStatusActive, AgentStatus("").Toggled())

	assert.True(t, AIAgent{Status: AgentStatusActive}.IsActive())
	assert.False(t, AIAgent{Status: AgentStatusInactive}.IsActive())
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "J", Contact{Name: "John Smith"}.Initial())
	assert.Equal(t, "张", Contact{Name: "张伟"}.Initial())
	assert.Equal(t, "", Contact{}.Initial())

	var nobody *User
	assert.Equal(t, "", nobody.Initial())
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{Name: "Admin User", Role: "admin"}).IsAdmin())
}

func TestContactLastContactTime(t *testing.T) {
	got, ok := Contact{LastContact: "2024-03-18"}.LastContactTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), got)

	got, ok = Contact{LastContact: "2024-03-18T09:30:00Z"}.LastContactTime()
	require.True(t, ok)
	assert.Equal(t, 9, got.Hour())

	_, ok = Contact{LastContact: "2 hours ago"}.LastContactTime()
	assert.False(t, ok)
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-02-08T10:30:00Z"`, want: time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC)},
		{in: `"2024-02-08T10:30:00.250+08:00"`, want: time.Date(2024, 2, 8, 2, 30, 0, 250e6, time.UTC)},
		{in: `"2024-02-08 10:30:15"`, want: time.Date(2024, 2, 8, 10, 30, 15, 0, time.UTC)},
		{in: `"2024-02-08 10:30"`, want: time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC)},
		{in: `"2024-02-08"`, want: time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)},
		{in: `""`},
		{in: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	t.Run("rejects other forms", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(`"08/02/2024"`), &ts))
		assert.Error(t, json.Unmarshal([]byte(`1707388200`), &ts))
	})

	t.Run("marshals RFC 3339", func(t *testing.T) {
		out, err := json.Marshal(Ticket{ID: "TK-1", CreatedAt: NewTimestamp(time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC))})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"createdAt":"2024-02-08T10:30:00Z"`)
		assert.Contains(t, string(out), `"updatedAt":null`)
	})

	t.Run("yaml short layout", func(t *testing.T) {
		var ticket Ticket
		require.NoError(t, yaml.Unmarshal([]byte("id: TK-1\ncreatedAt: \"2024-02-08 10:30\"\nupdatedAt: 2024-02-08T11:00:00Z\n"), &ticket))
		assert.Equal(t, time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC), ticket.CreatedAt.Time)
		assert.Equal(t, 11, ticket.UpdatedAt.Hour())
	})
}

func TestIntegrationJSON(t *testing.T) {
	var in Integrations
	require.NoError(t, json.Unmarshal([]byte(`{
		"slack": {"connected": true, "channel": "#support"},
		"zendesk": {"connected": false}
	}`), &in))

	assert.True(t, in["slack"].Connected)
	assert.Equal(t, "#support", in["slack"].Extra["channel"])
	assert.False(t, in["zendesk"].Connected)
	assert.Nil(t, in["zendesk"].Extra)

	out, err := json.Marshal(in["slack"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"connected": true, "channel": "#support"}`, string(out))
}

func TestQuotaLimitAcceptsNumbersAndStrings(t *testing.T) {
	var usage BillingUsage
	require.NoError(t, json.Unmarshal([]byte(`{
		"teamMembers": {"used": 8, "limit": 10},
		"storage": {"used": 45.5, "limit": 100, "unit": "GB"},
		"apiCalls": {"used": 125000, "limit": "unlimited", "period": "month"}
	}`), &usage))

	assert.Equal(t, QuotaLimit("10"), usage.TeamMembers.Limit)
	assert.Equal(t, 45.5, usage.Storage.Used)
	assert.Equal(t, QuotaLimit("unlimited"), usage.APICalls.Limit)

	var bad QuotaLimit
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

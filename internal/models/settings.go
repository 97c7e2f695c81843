package models

import (
	"bytes"
	"encoding/json"
)

// GeneralSettings are workspace-wide display settings.
type GeneralSettings struct {
	Language   string `json:"language" yaml:"language"`
	Timezone   string `json:"timezone" yaml:"timezone"`
	DateFormat string `json:"dateFormat" yaml:"dateFormat"`
	Theme      string `json:"theme" yaml:"theme"`
}

// GeneralSettingsPatch is a partial update of GeneralSettings.
type GeneralSettingsPatch struct {
	Language   *string `json:"language,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`
	DateFormat *string `json:"dateFormat,omitempty"`
	Theme      *string `json:"theme,omitempty"`
}

// NotificationSettings toggles which events notify the user.
type NotificationSettings struct {
	NewTicket          bool `json:"newTicket" yaml:"newTicket"`
	TicketUpdates      bool `json:"ticketUpdates" yaml:"ticketUpdates"`
	CustomerMessages   bool `json:"customerMessages" yaml:"customerMessages"`
	TeamMentions       bool `json:"teamMentions" yaml:"teamMentions"`
	WeeklyReports      bool `json:"weeklyReports" yaml:"weeklyReports"`
	EmailNotifications bool `json:"emailNotifications" yaml:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications" yaml:"pushNotifications"`
}

// Integration is the connection state of one third-party service. Extra
// holds service-specific fields.
type Integration struct {
	Connected bool                   `json:"connected" yaml:"connected"`
	Extra     map[string]interface{} `json:"-" yaml:"extra,omitempty"`
}

// UnmarshalJSON keeps unknown fields in Extra.
func (i *Integration) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if connected, ok := raw["connected"].(bool); ok {
		i.Connected = connected
	}
	delete(raw, "connected")
	if len(raw) > 0 {
		i.Extra = raw
	}
	return nil
}

// MarshalJSON flattens Extra next to the connected flag.
func (i Integration) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(i.Extra)+1)
	for k, v := range i.Extra {
		out[k] = v
	}
	out["connected"] = i.Connected
	return json.Marshal(out)
}

// Integrations maps service name (slack, zendesk, salesforce, openai) to
// its connection state.
type Integrations map[string]Integration

// TeamMember is a console user in the workspace team.
type TeamMember struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

// TeamRole is a named permission set.
type TeamRole struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// Team is the team settings payload.
type Team struct {
	Members []TeamMember `json:"members" yaml:"members"`
	Roles   []TeamRole   `json:"roles" yaml:"roles"`
}

// InviteRequest invites a new member.
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Invitation is the upstream acknowledgement of an invite.
type Invitation struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// PaymentMethod is the card on file.
type PaymentMethod struct {
	Type  string `json:"type" yaml:"type"`
	Last4 string `json:"last4" yaml:"last4"`
	Brand string `json:"brand" yaml:"brand"`
}

// QuotaLimit is a quota ceiling. Upstream sends a number for metered
// quotas and a string such as "unlimited" for the rest.
type QuotaLimit string

// UnmarshalJSON accepts both JSON numbers and strings.
func (l *QuotaLimit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = QuotaLimit(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = QuotaLimit(n.String())
	return nil
}

// UsageQuota is a used/limit pair.
type UsageQuota struct {
	Used   float64    `json:"used" yaml:"used"`
	Limit  QuotaLimit `json:"limit" yaml:"limit"`
	Unit   string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Period string     `json:"period,omitempty" yaml:"period,omitempty"`
}

// BillingUsage groups the plan quotas.
type BillingUsage struct {
	TeamMembers UsageQuota `json:"teamMembers" yaml:"teamMembers"`
	Storage     UsageQuota `json:"storage" yaml:"storage"`
	APICalls    UsageQuota `json:"apiCalls" yaml:"apiCalls"`
}

// Billing is the subscription and usage summary.
type Billing struct {
	Plan            string        `json:"plan" yaml:"plan"`
	Price           float64       `json:"price" yaml:"price"`
	BillingCycle    string        `json:"billingCycle" yaml:"billingCycle"`
	NextBillingDate string        `json:"nextBillingDate" yaml:"nextBillingDate"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" yaml:"paymentMethod"`
	Usage           BillingUsage  `json:"usage" yaml:"usage"`
}

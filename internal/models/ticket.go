package models

import "fmt"

// TicketStatus is the closed set of ticket states.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusPending,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TicketPriority is the closed set of ticket priorities.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts a filter value into a status. "all" and the
// empty string mean "no status filter" and return ok=false without error.
func ParseTicketStatus(value string) (TicketStatus, bool, error) {
	if value == "" || value == "all" {
		return "", false, nil
	}
	s := TicketStatus(value)
	if !s.Valid() {
		return "", false, fmt.Errorf("unknown ticket status %q", value)
	}
	return s, true, nil
}

// Ticket represents a support ticket as returned by the upstream API.
type Ticket struct {
	ID          string         `json:"id" yaml:"id"`
	Subject     string         `json:"subject" yaml:"subject"`
	Description string         `json:"description" yaml:"description"`
	Status      TicketStatus   `json:"status" yaml:"status"`
	Priority    TicketPriority `json:"priority" yaml:"priority"`
	CustomerID  string         `json:"customerId" yaml:"customerId"`
	AssigneeID  string         `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	Tags        []string       `json:"tags" yaml:"tags"`
	Messages    int            `json:"messages" yaml:"messages"`
	CreatedAt   Timestamp      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   Timestamp      `json:"updatedAt" yaml:"updatedAt"`
}

// GetID returns the ticket id.
func (t Ticket) GetID() string { return t.ID }

// IsAssigned reports whether the ticket references an assignee.
func (t Ticket) IsAssigned() bool { return t.AssigneeID != "" }

// TicketMessage is a reply or internal note appended to a ticket.
type TicketMessage struct {
	Content    string `json:"content"`
	SenderID   string `json:"senderId"`
	IsInternal bool   `json:"isInternal,omitempty"`
}

// TicketMessageResult is the upstream acknowledgement of an added message.
type TicketMessageResult struct {
	Message  string `json:"message"`
	Messages int    `json:"messages"`
}

// TicketListOptions carries the query filters for listing tickets.
type TicketListOptions struct {
	Status   TicketStatus
	Priority TicketPriority
	Search   string
	Page     int
	Limit    int
}

// TicketCreateRequest is the payload for creating a ticket.
type TicketCreateRequest struct {
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority,omitempty"`
	CustomerID  string         `json:"customerId,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// TicketUpdateRequest is the partial payload for updating a ticket.
type TicketUpdateRequest struct {
	Status     *TicketStatus   `json:"status,omitempty"`
	Priority   *TicketPriority `json:"priority,omitempty"`
	AssigneeID *string         `json:"assigneeId,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
}

// TicketListResponse is the list envelope for tickets.
type TicketListResponse struct {
	Data       []Ticket    `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

package models

import "time"

// Contact is a customer record.
type Contact struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	Phone        string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Company      string    `json:"company,omitempty" yaml:"company,omitempty"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags         []string  `json:"tags" yaml:"tags"`
	TotalTickets int       `json:"totalTickets" yaml:"totalTickets"`
	LastContact  string    `json:"lastContact" yaml:"lastContact"`
	CreatedAt    Timestamp `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt" yaml:"updatedAt"`
}

// GetID returns the contact id.
func (c Contact) GetID() string { return c.ID }

// Initial returns the first letter of the contact name.
func (c Contact) Initial() string { return initial(c.Name) }

// LastContactTime parses LastContact, which upstream sends in any of the
// Timestamp layouts.
func (c Contact) LastContactTime() (time.Time, bool) {
	ts, err := ParseTimestamp(c.LastContact)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts.Time, true
}

// ContactListOptions carries the query filters for listing contacts.
type ContactListOptions struct {
	Search string
	Page   int
	Limit  int
}

// ContactCreateRequest is the payload for creating a contact.
type ContactCreateRequest struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone,omitempty"`
	Company string   `json:"company,omitempty"`
	Notes   string   `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ContactUpdateRequest is the partial payload for updating a contact.
type ContactUpdateRequest struct {
	Name    *string  `json:"name,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
	Company *string  `json:"company,omitempty"`
	Notes   *string  `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ContactListResponse is the list envelope for contacts.
type ContactListResponse struct {
	Data       []Contact   `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

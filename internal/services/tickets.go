package services

import (
	"context"
	"net/url"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// TicketsService handles ticket-related API operations
type TicketsService struct {
	api API
}

// List retrieves tickets matching options. Filtering happens upstream.
func (s *TicketsService) List(ctx context.Context, options models.TicketListOptions) (*models.TicketListResponse, error) {
	query := url.Values{}
	if options.Status != "" {
		query.Set("status", string(options.Status))
	}
	if options.Priority != "" {
		query.Set("priority", string(options.Priority))
	}
	if options.Search != "" {
		query.Set("search", options.Search)
	}
	setPaging(query, options.Page, options.Limit)

	var result models.TicketListResponse
	if err := s.api.Get(ctx, "/tickets", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a specific ticket by ID
func (s *TicketsService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	var result models.Ticket
	if err := s.api.Get(ctx, apiclient.PathEscape("/tickets", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a new ticket
func (s *TicketsService) Create(ctx context.Context, request models.TicketCreateRequest) (*models.Ticket, error) {
	var result models.Ticket
	if err := s.api.Post(ctx, "/tickets", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update patches an existing ticket
func (s *TicketsService) Update(ctx context.Context, id string, request models.TicketUpdateRequest) (*models.Ticket, error) {
	var result models.Ticket
	if err := s.api.Patch(ctx, apiclient.PathEscape("/tickets", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes a ticket
func (s *TicketsService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, apiclient.PathEscape("/tickets", id), nil)
}

// AddMessage appends a reply or internal note to a ticket.
func (s *TicketsService) AddMessage(ctx context.Context, id string, message models.TicketMessage) (*models.TicketMessageResult, error) {
	var result models.TicketMessageResult
	if err := s.api.Post(ctx, apiclient.PathEscape("/tickets", id, "messages"), message, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

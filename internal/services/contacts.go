package services

import (
	"context"
	"net/url"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// ContactsService handles contact-related API operations
type ContactsService struct {
	api API
}

// List retrieves contacts matching options.
func (s *ContactsService) List(ctx context.Context, options models.ContactListOptions) (*models.ContactListResponse, error) {
	query := url.Values{}
	if options.Search != "" {
		query.Set("search", options.Search)
	}
	setPaging(query, options.Page, options.Limit)

	var result models.ContactListResponse
	if err := s.api.Get(ctx, "/contacts", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a specific contact by ID
func (s *ContactsService) Get(ctx context.Context, id string) (*models.Contact, error) {
	var result models.Contact
	if err := s.api.Get(ctx, apiclient.PathEscape("/contacts", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a new contact
func (s *ContactsService) Create(ctx context.Context, request models.ContactCreateRequest) (*models.Contact, error) {
	var result models.Contact
	if err := s.api.Post(ctx, "/contacts", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update patches an existing contact
func (s *ContactsService) Update(ctx context.Context, id string, request models.ContactUpdateRequest) (*models.Contact, error) {
	var result models.Contact
	if err := s.api.Patch(ctx, apiclient.PathEscape("/contacts", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes a contact
func (s *ContactsService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, apiclient.PathEscape("/contacts", id), nil)
}

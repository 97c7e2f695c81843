// Package services holds the typed façades over the upstream REST API. They
// build paths and query strings and leave every error to the caller.
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
)

// API is the subset of apiclient.Client the services need.
type API interface {
	Get(ctx context.Context, path string, query url.Values, result interface{}) error
	Post(ctx context.Context, path string, body, result interface{}) error
	Patch(ctx context.Context, path string, body, result interface{}) error
	Delete(ctx context.Context, path string, result interface{}) error
}

var _ API = (*apiclient.Client)(nil)

// Services bundles one service per resource.
type Services struct {
	Auth          *AuthService
	Tickets       *TicketsService
	Contacts      *ContactsService
	KnowledgeBase *KnowledgeBaseService
	AIAgents      *AIAgentsService
	Reports       *ReportsService
	Settings      *SettingsService
}

// New wires every service to api.
func New(api API) *Services {
	return &Services{
		Auth:          &AuthService{api: api},
		Tickets:       &TicketsService{api: api},
		Contacts:      &ContactsService{api: api},
		KnowledgeBase: &KnowledgeBaseService{api: api},
		AIAgents:      &AIAgentsService{api: api},
		Reports:       &ReportsService{api: api},
		Settings:      &SettingsService{api: api},
	}
}

func setPaging(query url.Values, page, limit int) {
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
}

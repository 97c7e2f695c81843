package services

import (
	"context"
	"net/url"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// AIAgentsService handles AI agent configuration and test chat.
type AIAgentsService struct {
	api API
}

// List retrieves agents, optionally only those with status.
func (s *AIAgentsService) List(ctx context.Context, status models.AgentStatus) (*models.AgentListResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var result models.AgentListResponse
	if err := s.api.Get(ctx, "/ai-agents", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a specific agent by ID
func (s *AIAgentsService) Get(ctx context.Context, id string) (*models.AIAgent, error) {
	var result models.AIAgent
	if err := s.api.Get(ctx, apiclient.PathEscape("/ai-agents", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a new agent
func (s *AIAgentsService) Create(ctx context.Context, request models.AgentCreateRequest) (*models.AIAgent, error) {
	var result models.AIAgent
	if err := s.api.Post(ctx, "/ai-agents", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update patches an existing agent
func (s *AIAgentsService) Update(ctx context.Context, id string, request models.AgentUpdateRequest) (*models.AIAgent, error) {
	var result models.AIAgent
	if err := s.api.Patch(ctx, apiclient.PathEscape("/ai-agents", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes an agent
func (s *AIAgentsService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, apiclient.PathEscape("/ai-agents", id), nil)
}

// Chat sends one test message to an agent.
func (s *AIAgentsService) Chat(ctx context.Context, id string, request models.ChatRequest) (*models.ChatResponse, error) {
	var result models.ChatResponse
	if err := s.api.Post(ctx, apiclient.PathEscape("/ai-agents", id, "chat"), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

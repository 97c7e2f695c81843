package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// KnowledgeBaseService handles knowledge base articles and categories.
type KnowledgeBaseService struct {
	api API
}

// List retrieves articles matching options.
func (s *KnowledgeBaseService) List(ctx context.Context, options models.ArticleListOptions) (*models.ArticleListResponse, error) {
	query := url.Values{}
	if options.Category != "" {
		query.Set("category", options.Category)
	}
	if options.Search != "" {
		query.Set("search", options.Search)
	}
	if options.Published != nil {
		query.Set("published", strconv.FormatBool(*options.Published))
	}
	setPaging(query, options.Page, options.Limit)

	var result models.ArticleListResponse
	if err := s.api.Get(ctx, "/knowledge-base", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Categories retrieves the category names with their article counts.
func (s *KnowledgeBaseService) Categories(ctx context.Context) (*models.CategoryListResponse, error) {
	var result models.CategoryListResponse
	if err := s.api.Get(ctx, "/knowledge-base/categories", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a specific article by ID
func (s *KnowledgeBaseService) Get(ctx context.Context, id string) (*models.KnowledgeArticle, error) {
	var result models.KnowledgeArticle
	if err := s.api.Get(ctx, apiclient.PathEscape("/knowledge-base", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a new article
func (s *KnowledgeBaseService) Create(ctx context.Context, request models.ArticleCreateRequest) (*models.KnowledgeArticle, error) {
	var result models.KnowledgeArticle
	if err := s.api.Post(ctx, "/knowledge-base", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update patches an existing article
func (s *KnowledgeBaseService) Update(ctx context.Context, id string, request models.ArticleUpdateRequest) (*models.KnowledgeArticle, error) {
	var result models.KnowledgeArticle
	if err := s.api.Patch(ctx, apiclient.PathEscape("/knowledge-base", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes an article
func (s *KnowledgeBaseService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, apiclient.PathEscape("/knowledge-base", id), nil)
}

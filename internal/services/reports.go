package services

import (
	"context"
	"net/url"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

// ReportsService reads the aggregated report endpoints.
type ReportsService struct {
	api API
}

func (s *ReportsService) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return s.api.Get(ctx, path, query, result)
}

// Dashboard returns the dashboard headline numbers and trend.
func (s *ReportsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var result models.DashboardStats
	if err := s.get(ctx, "/reports/dashboard", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TicketVolume returns created/resolved counts for period (for example "6months").
func (s *ReportsService) TicketVolume(ctx context.Context, period string) (*models.TicketVolume, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	var result models.TicketVolume
	if err := s.get(ctx, "/reports/tickets/volume", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResponseTime returns the average response time series.
func (s *ReportsService) ResponseTime(ctx context.Context) (*models.ResponseTime, error) {
	var result models.ResponseTime
	if err := s.get(ctx, "/reports/tickets/response-time", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResolutionRate returns the resolution rate overall and per priority.
func (s *ReportsService) ResolutionRate(ctx context.Context) (*models.ResolutionRate, error) {
	var result models.ResolutionRate
	if err := s.get(ctx, "/reports/tickets/resolution-rate", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Satisfaction returns the satisfaction score and distribution.
func (s *ReportsService) Satisfaction(ctx context.Context) (*models.Satisfaction, error) {
	var result models.Satisfaction
	if err := s.get(ctx, "/reports/satisfaction", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Channels returns the ticket share per inbound channel.
func (s *ReportsService) Channels(ctx context.Context) (*models.Channels, error) {
	var result models.Channels
	if err := s.get(ctx, "/reports/channels", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AgentPerformance returns the per-agent performance rows.
func (s *ReportsService) AgentPerformance(ctx context.Context) (*models.AgentPerformance, error) {
	var result models.AgentPerformance
	if err := s.get(ctx, "/reports/agents/performance", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

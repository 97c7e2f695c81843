package services

import (
	"context"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// SettingsService reads and patches workspace settings.
type SettingsService struct {
	api API
}

// General returns the general settings.
func (s *SettingsService) General(ctx context.Context) (*models.GeneralSettings, error) {
	var result models.GeneralSettings
	if err := s.api.Get(ctx, "/settings/general", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateGeneral patches the general settings.
func (s *SettingsService) UpdateGeneral(ctx context.Context, patch models.GeneralSettingsPatch) (*models.GeneralSettings, error) {
	var result models.GeneralSettings
	if err := s.api.Patch(ctx, "/settings/general", patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Notifications returns the notification toggles.
func (s *SettingsService) Notifications(ctx context.Context) (*models.NotificationSettings, error) {
	var result models.NotificationSettings
	if err := s.api.Get(ctx, "/settings/notifications", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateNotifications patches the notification toggles. Only the keys in
// patch are sent.
func (s *SettingsService) UpdateNotifications(ctx context.Context, patch map[string]bool) (*models.NotificationSettings, error) {
	var result models.NotificationSettings
	if err := s.api.Patch(ctx, "/settings/notifications", patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Integrations returns the connection state of every integration.
func (s *SettingsService) Integrations(ctx context.Context) (models.Integrations, error) {
	var result models.Integrations
	if err := s.api.Get(ctx, "/settings/integrations", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateIntegration patches one integration by service name.
func (s *SettingsService) UpdateIntegration(ctx context.Context, service string, patch map[string]interface{}) (*models.Integration, error) {
	var result models.Integration
	if err := s.api.Patch(ctx, apiclient.PathEscape("/settings/integrations", service), patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Team returns team members and roles.
func (s *SettingsService) Team(ctx context.Context) (*models.Team, error) {
	var result models.Team
	if err := s.api.Get(ctx, "/settings/team", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InviteMember sends a team invitation.
func (s *SettingsService) InviteMember(ctx context.Context, request models.InviteRequest) (*models.Invitation, error) {
	var result models.Invitation
	if err := s.api.Post(ctx, "/settings/team/invite", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Billing returns the plan and usage summary.
func (s *SettingsService) Billing(ctx context.Context) (*models.Billing, error) {
	var result models.Billing
	if err := s.api.Get(ctx, "/settings/billing", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

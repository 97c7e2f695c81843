package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/store"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

// Settings tabs in display order.
var settingsTabs = []string{"general", "notifications", "integrations", "team", "billing"}

var themes = []string{"light", "dark", "auto"}

// formSettings names the settings forms, which have no local schema.
const formSettings validation.Form = "settings"

var languageLabels = map[string]string{store.LanguageZH: "中文", store.LanguageEN: "English"}

// notifyKeys are the notification toggles in display order. The keys are
// the upstream field names.
var notifyKeys = []string{
	"newTicket", "ticketUpdates", "customerMessages", "teamMentions",
	"weeklyReports", "emailNotifications", "pushNotifications",
}

// Tab is one settings section link.
type Tab struct {
	Key      string
	LabelKey string
	Active   bool
}

// NotifyRow is one notification checkbox.
type NotifyRow struct {
	Key      string
	LabelKey string
	Enabled  bool
}

// IntegrationRow is one third-party service.
type IntegrationRow struct {
	Service     string
	Description string
	Connected   bool
}

// UsageRow is one billing quota.
type UsageRow struct {
	LabelKey string
	Used     float64
	Limit    models.QuotaLimit
	Unit     string
}

// settingsView carries the outcome of a settings action into the page.
// Non-nil values replace what would otherwise be fetched.
type settingsView struct {
	form          formState
	flash         string
	general       *models.GeneralSettings
	notifications *models.NotificationSettings
	integrations  models.Integrations
}

func tabFrom(raw string) string {
	for _, t := range settingsTabs {
		if t == raw {
			return t
		}
	}
	return settingsTabs[0]
}

// fallback logs an upstream settings failure and records the demo fallback.
func (s *Server) fallback(name string, err error) {
	metrics.Pages{}.Fallback(name)
	s.logger.Warn("settings load failed, showing demo data",
		slog.String("section", name),
		slog.String("kind", apiclient.Kind(err)),
		slog.Any("error", err))
}

func notifyMap(n models.NotificationSettings) map[string]bool {
	return map[string]bool{
		"newTicket":          n.NewTicket,
		"ticketUpdates":      n.TicketUpdates,
		"customerMessages":   n.CustomerMessages,
		"teamMentions":       n.TeamMentions,
		"weeklyReports":      n.WeeklyReports,
		"emailNotifications": n.EmailNotifications,
		"pushNotifications":  n.PushNotifications,
	}
}

func integrationRows(in models.Integrations) []IntegrationRow {
	rows := make([]IntegrationRow, 0, len(in))
	for service, i := range in {
		row := IntegrationRow{Service: service, Connected: i.Connected}
		if d, ok := i.Extra["description"].(string); ok {
			row.Description = d
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].Service < rows[b].Service })
	return rows
}

func usageRows(u models.BillingUsage) []UsageRow {
	return []UsageRow{
		{LabelKey: "settings.usageTeamMembers", Used: u.TeamMembers.Used, Limit: u.TeamMembers.Limit, Unit: u.TeamMembers.Unit},
		{LabelKey: "settings.usageStorage", Used: u.Storage.Used, Limit: u.Storage.Limit, Unit: u.Storage.Unit},
		{LabelKey: "settings.usageApiCalls", Used: u.APICalls.Used, Limit: u.APICalls.Limit, Unit: u.APICalls.Unit},
	}
}

func (s *Server) handleSettings(c *gin.Context) {
	s.renderSettings(c, http.StatusOK, tabFrom(c.Query("tab")), settingsView{})
}

// tabData loads the data of one tab. It reports false when the upstream
// failed and mock data is shown.
func (s *Server) tabData(ctx context.Context, c *gin.Context, tab string, sv settingsView) (pongo2.Context, bool) {
	svc, data := s.deps.Services.Settings, s.deps.Mocks
	live := true

	switch tab {
	case "general":
		general := sv.general
		if general == nil {
			var err error
			if general, err = svc.General(ctx); err != nil {
				s.fallback("settings-general", err)
				general, live = &data.General, false
			}
		}
		current := general.Language
		if sv.form.Values["language"] != "" {
			current = sv.form.Values["language"]
		}
		langs := make([]Option, 0, 2)
		for _, l := range s.deps.I18n.GetSupportedLanguages() {
			langs = append(langs, Option{Value: l, Label: languageLabels[l], Selected: l == current})
		}
		themeOpts := make([]Option, 0, len(themes))
		for _, th := range themes {
			themeOpts = append(themeOpts, Option{Value: th, Label: th, Selected: th == general.Theme})
		}
		return pongo2.Context{"General": general, "LanguageOptions": langs, "ThemeOptions": themeOpts}, live

	case "notifications":
		n := sv.notifications
		if n == nil {
			var err error
			if n, err = svc.Notifications(ctx); err != nil {
				s.fallback("settings-notifications", err)
				n, live = &data.Notifications, false
			}
		}
		enabled := notifyMap(*n)
		rows := make([]NotifyRow, 0, len(notifyKeys))
		for _, k := range notifyKeys {
			rows = append(rows, NotifyRow{Key: k, LabelKey: "settings.notify." + k, Enabled: enabled[k]})
		}
		return pongo2.Context{"NotifyRows": rows}, live

	case "integrations":
		in := sv.integrations
		if in == nil {
			var err error
			if in, err = svc.Integrations(ctx); err != nil {
				s.fallback("settings-integrations", err)
				in, live = data.Integrations, false
			}
		}
		return pongo2.Context{"IntegrationRows": integrationRows(in)}, live

	case "team":
		team, err := svc.Team(ctx)
		if err != nil {
			s.fallback("settings-team", err)
			team, live = &data.Team, false
		}
		return pongo2.Context{"Team": team}, live

	default:
		billing, err := svc.Billing(ctx)
		if err != nil {
			s.fallback("settings-billing", err)
			billing, live = &data.Billing, false
		}
		price := strconv.FormatFloat(billing.Price, 'f', -1, 64)
		return pongo2.Context{
			"Billing":   billing,
			"Renews":    s.t(c, "settings.renews", fmt.Sprintf("$%s", price), billing.NextBillingDate),
			"UsageRows": usageRows(billing.Usage),
		}, live
	}
}

func (s *Server) renderSettings(c *gin.Context, code int, tab string, sv settingsView) {
	ctx := c.Request.Context()
	section, live := s.tabData(ctx, c, tab, sv)
	if ctx.Err() != nil {
		return
	}

	tabs := make([]Tab, 0, len(settingsTabs))
	for _, t := range settingsTabs {
		tabs = append(tabs, Tab{Key: t, LabelKey: "settings." + t, Active: t == tab})
	}

	data := sv.form.context()
	data.Update(section)
	data.Update(pongo2.Context{
		"Demo":  !live,
		"Flash": sv.flash,
		"Tab":   tab,
		"Tabs":  tabs,
	})
	s.render(c, code, "pages/settings.pongo2", "settings.title", data)
}

// failSettings shows an upstream write failure on the tab it came from.
func (s *Server) failSettings(c *gin.Context, tab string, form validation.Form, err error, state formState) {
	s.explain(c, form, err, &state)
	s.renderSettings(c, http.StatusUnprocessableEntity, tab, settingsView{form: state})
}

func (s *Server) handleUpdateGeneral(c *gin.Context) {
	values := postedForm(c, "language", "timezone", "dateFormat", "theme")
	if values["language"] != "" && !s.deps.I18n.IsSupported(values["language"]) {
		form := formState{Values: values, Errors: map[string]string{
			"language": s.t(c, "validation.invalid", s.t(c, "common.language")),
		}}
		s.renderSettings(c, http.StatusUnprocessableEntity, "general", settingsView{form: form})
		return
	}

	var patch models.GeneralSettingsPatch
	for field, dst := range map[string]**string{
		"language": &patch.Language, "timezone": &patch.Timezone,
		"dateFormat": &patch.DateFormat, "theme": &patch.Theme,
	} {
		if v := values[field]; v != "" {
			*dst = &v
		}
	}

	updated, err := s.deps.Services.Settings.UpdateGeneral(c.Request.Context(), patch)
	if err != nil {
		s.failSettings(c, "general", formSettings, err, formState{Values: values})
		return
	}

	// The console language follows the saved workspace language.
	if updated.Language != "" {
		workspaceOf(c).UI.SetLanguage(updated.Language)
	}
	s.renderSettings(c, http.StatusOK, "general", settingsView{general: updated, flash: s.t(c, "common.saved")})
}

func (s *Server) handleUpdateNotifications(c *gin.Context) {
	patch := make(map[string]bool, len(notifyKeys))
	for _, k := range notifyKeys {
		on, _ := strconv.ParseBool(c.PostForm(k))
		patch[k] = on
	}

	updated, err := s.deps.Services.Settings.UpdateNotifications(c.Request.Context(), patch)
	if err != nil {
		s.failSettings(c, "notifications", formSettings, err, formState{})
		return
	}
	s.renderSettings(c, http.StatusOK, "notifications", settingsView{notifications: updated, flash: s.t(c, "common.saved")})
}

func (s *Server) handleUpdateIntegration(c *gin.Context) {
	ctx := c.Request.Context()
	service := c.Param("service")
	connected, err := strconv.ParseBool(c.PostForm("connected"))
	if err != nil {
		s.renderSettings(c, http.StatusBadRequest, "integrations", settingsView{
			flash: s.t(c, "validation.invalid", s.t(c, "settings.integrations")),
		})
		return
	}

	updated, err := s.deps.Services.Settings.UpdateIntegration(ctx, service, map[string]interface{}{"connected": connected})
	if err != nil {
		s.failSettings(c, "integrations", formSettings, err, formState{})
		return
	}

	all, err := s.deps.Services.Settings.Integrations(ctx)
	if err != nil {
		s.fallback("settings-integrations", err)
		all = make(models.Integrations, len(s.deps.Mocks.Integrations))
		for k, v := range s.deps.Mocks.Integrations {
			all[k] = v
		}
	}
	if prev, ok := all[service]; ok && updated.Extra == nil {
		updated.Extra = prev.Extra
	}
	all[service] = *updated
	s.logger.Info("integration updated", slog.String("service", service), slog.Bool("connected", updated.Connected))
	s.renderSettings(c, http.StatusOK, "integrations", settingsView{integrations: all, flash: s.t(c, "common.saved")})
}

func (s *Server) handleInviteMember(c *gin.Context) {
	values := postedForm(c, "email", "role")
	req := models.InviteRequest{Email: values["email"], Role: values["role"]}

	form := s.validate(c, validation.FormInvite, req, values)
	if form.failed() {
		s.renderSettings(c, http.StatusUnprocessableEntity, "team", settingsView{form: form})
		return
	}

	invitation, err := s.deps.Services.Settings.InviteMember(c.Request.Context(), req)
	if err != nil {
		s.failSettings(c, "team", validation.FormInvite, err, form)
		return
	}
	s.logger.Info("member invited", slog.String("invitation", invitation.ID), slog.String("role", invitation.Role))
	s.renderSettings(c, http.StatusCreated, "team", settingsView{flash: s.t(c, "common.saved")})
}

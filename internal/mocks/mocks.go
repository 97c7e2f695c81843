// Package mocks bundles the demo datasets shown when the upstream API cannot
// be reached.
package mocks

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Dataset is the full set of bundled demo data.
type Dataset struct {
	Tickets    []models.Ticket
	Contacts   []models.Contact
	Articles   []models.KnowledgeArticle
	Categories []models.Category
	Agents     []models.AIAgent

	// Responses maps agent name to its canned chat replies.
	Responses        map[string][]string
	FallbackResponse string

	Dashboard        models.DashboardStats
	RecentTickets    []models.RecentTicket
	TicketCategories []models.CategoryShare
	Volume           models.TicketVolume
	ResponseTime     models.ResponseTime
	ResolutionRate   models.ResolutionRate
	Satisfaction     models.Satisfaction
	Channels         models.Channels
	AgentPerformance models.AgentPerformance

	General       models.GeneralSettings
	Notifications models.NotificationSettings
	Integrations  models.Integrations
	Team          models.Team
	Billing       models.Billing
}

type articlesFile struct {
	Articles   []models.KnowledgeArticle `yaml:"articles"`
	Categories []models.Category         `yaml:"categories"`
}

type agentsFile struct {
	Agents           []models.AIAgent    `yaml:"agents"`
	Responses        map[string][]string `yaml:"responses"`
	FallbackResponse string              `yaml:"fallbackResponse"`
}

type reportsFile struct {
	Dashboard        models.DashboardStats   `yaml:"dashboard"`
	RecentTickets    []models.RecentTicket   `yaml:"recentTickets"`
	TicketCategories []models.CategoryShare  `yaml:"ticketCategories"`
	Volume           models.TicketVolume     `yaml:"volume"`
	ResponseTime     models.ResponseTime     `yaml:"responseTime"`
	ResolutionRate   models.ResolutionRate   `yaml:"resolutionRate"`
	Satisfaction     models.Satisfaction     `yaml:"satisfaction"`
	Channels         models.Channels         `yaml:"channels"`
	AgentPerformance models.AgentPerformance `yaml:"agentPerformance"`
}

type settingsFile struct {
	General       models.GeneralSettings      `yaml:"general"`
	Notifications models.NotificationSettings `yaml:"notifications"`
	Integrations  models.Integrations         `yaml:"integrations"`
	Team          models.Team                 `yaml:"team"`
	Billing       models.Billing              `yaml:"billing"`
}

var (
	loadOnce sync.Once
	loaded   *Dataset
	loadErr  error
)

// Load parses the embedded fixtures once.
func Load() (*Dataset, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse()
	})
	return loaded, loadErr
}

// MustLoad is Load for start-up code; the fixtures are compiled in so a
// parse failure is a build defect.
func MustLoad() *Dataset {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

func parse() (*Dataset, error) {
	d := &Dataset{}

	if err := decode("tickets.yaml", &d.Tickets); err != nil {
		return nil, err
	}
	if err := decode("contacts.yaml", &d.Contacts); err != nil {
		return nil, err
	}

	var articles articlesFile
	if err := decode("articles.yaml", &articles); err != nil {
		return nil, err
	}
	d.Articles, d.Categories = articles.Articles, articles.Categories

	var agents agentsFile
	if err := decode("agents.yaml", &agents); err != nil {
		return nil, err
	}
	d.Agents, d.Responses, d.FallbackResponse = agents.Agents, agents.Responses, agents.FallbackResponse

	var reports reportsFile
	if err := decode("reports.yaml", &reports); err != nil {
		return nil, err
	}
	d.Dashboard = reports.Dashboard
	d.RecentTickets = reports.RecentTickets
	d.TicketCategories = reports.TicketCategories
	d.Volume = reports.Volume
	d.ResponseTime = reports.ResponseTime
	d.ResolutionRate = reports.ResolutionRate
	d.Satisfaction = reports.Satisfaction
	d.Channels = reports.Channels
	d.AgentPerformance = reports.AgentPerformance

	var settings settingsFile
	if err := decode("settings.yaml", &settings); err != nil {
		return nil, err
	}
	d.General = settings.General
	d.Notifications = settings.Notifications
	d.Integrations = settings.Integrations
	d.Team = settings.Team
	d.Billing = settings.Billing

	return d, nil
}

func decode(name string, out interface{}) error {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("read mock %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse mock %s: %w", name, err)
	}
	return nil
}

// DashboardVolume derives the dashboard volume chart from the daily trend:
// each day's resolved count is 80% of its created count, rounded down.
func (d *Dataset) DashboardVolume() models.TicketVolume {
	points := make([]models.VolumePoint, 0, len(d.Dashboard.TicketTrend))
	for _, p := range d.Dashboard.TicketTrend {
		points = append(points, models.VolumePoint{
			Month:    p.Date,
			Tickets:  p.Count,
			Resolved: p.Count * 8 / 10,
		})
	}
	return models.TicketVolume{Period: "6months", Data: points}
}

// The accessors below return copies so pages can mutate their lists.

// TicketList returns a copy of the demo tickets.
func (d *Dataset) TicketList() []models.Ticket { return append([]models.Ticket(nil), d.Tickets...) }

// ContactList returns a copy of the demo contacts.
func (d *Dataset) ContactList() []models.Contact {
	return append([]models.Contact(nil), d.Contacts...)
}

// ArticleList returns a copy of the demo articles.
func (d *Dataset) ArticleList() []models.KnowledgeArticle {
	return append([]models.KnowledgeArticle(nil), d.Articles...)
}

// AgentList returns a copy of the demo agents.
func (d *Dataset) AgentList() []models.AIAgent { return append([]models.AIAgent(nil), d.Agents...) }

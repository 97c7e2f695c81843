package web

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/gotrs-io/gotrs-console/internal/i18n"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/pages"
)

const recentTicketLimit = 5

func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	svc, data := s.deps.Services, s.deps.Mocks
	lang := s.lang(c)
	ws := workspaceOf(c)

	var (
		demo   atomic.Bool
		stats  models.DashboardStats
		volume models.TicketVolume
		recent []models.RecentTicket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats = section(s, gctx, "dashboard", svc.Reports.Dashboard, data.Dashboard, &demo)
		return nil
	})
	g.Go(func() error {
		volume = section(s, gctx, "volume", func(ctx context.Context) (*models.TicketVolume, error) {
			return svc.Reports.TicketVolume(ctx, "6months")
		}, data.DashboardVolume(), &demo)
		return nil
	})
	g.Go(func() error {
		recent = section(s, gctx, "recent-tickets", func(ctx context.Context) (*[]models.RecentTicket, error) {
			resp, err := svc.Tickets.List(ctx, models.TicketListOptions{Limit: recentTicketLimit})
			if err != nil {
				if cached := liveTickets(ws); len(cached) > 0 && ctx.Err() == nil {
					rows := recentRows(cached, lang, s.now())
					return &rows, nil
				}
				return nil, err
			}
			rows := recentRows(resp.Data, lang, s.now())
			return &rows, nil
		}, data.RecentTickets, &demo)
		return nil
	})
	_ = g.Wait()

	if ctx.Err() != nil {
		return
	}

	s.render(c, http.StatusOK, "pages/dashboard.pongo2", "dashboard.title", pongo2.Context{
		"Demo":        demo.Load(),
		"Stats":       stats,
		"Volume":      volume,
		"VolumeMax":   volumeMax(volume),
		"Recent":      recent,
		"Categories":  data.TicketCategories,
		"CategoryMax": categoryMax(data.TicketCategories),
	})
}

// liveTickets returns the tickets this session last loaded from the
// server, or nil when the tickets page has only shown demo data.
func liveTickets(ws *Workspace) []models.Ticket {
	if ws.Pages.Tickets.View().Source != pages.SourceServer {
		return nil
	}
	return ws.UI.Tickets.All()
}

// recentRows shapes live tickets like the bundled recent list.
func recentRows(tickets []models.Ticket, lang string, now time.Time) []models.RecentTicket {
	if len(tickets) > recentTicketLimit {
		tickets = tickets[:recentTicketLimit]
	}
	rows := make([]models.RecentTicket, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, models.RecentTicket{
			ID:       t.ID,
			Subject:  t.Subject,
			Customer: t.CustomerID,
			Status:   t.Status,
			Priority: t.Priority,
			Time:     i18n.TimeAgo(lang, t.CreatedAt.Time, now),
		})
	}
	return rows
}

func volumeMax(v models.TicketVolume) int {
	top := 1
	for _, p := range v.Data {
		if p.Tickets > top {
			top = p.Tickets
		}
		if p.Resolved > top {
			top = p.Resolved
		}
	}
	return top
}

func categoryMax(cats []models.CategoryShare) int {
	top := 1
	for _, cat := range cats {
		if cat.Value > top {
			top = cat.Value
		}
	}
	return top
}

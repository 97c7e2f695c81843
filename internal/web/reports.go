package web

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/export"
	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// section loads one report section and substitutes mock when the upstream
// call fails, flagging demo.
func section[T any](s *Server, ctx context.Context, name string, load func(context.Context) (*T, error), mock T, demo *atomic.Bool) T {
	v, err := load(ctx)
	if err == nil && v != nil {
		return *v
	}
	if err == nil {
		err = fmt.Errorf("empty %s response", name)
	}
	demo.Store(true)
	metrics.Pages{}.Fallback(name)
	s.logger.Warn("report section failed, showing demo data",
		slog.String("section", name),
		slog.String("kind", apiclient.Kind(err)),
		slog.Any("error", err))
	return mock
}

// ResolutionRow is one priority of the resolution rate card.
type ResolutionRow struct {
	Priority models.TicketPriority
	Rate     float64
}

func resolutionRows(r models.ResolutionRate) []ResolutionRow {
	rows := make([]ResolutionRow, 0, len(models.TicketPriorities))
	for _, p := range models.TicketPriorities {
		if rate, ok := r.ByPriority[p]; ok {
			rows = append(rows, ResolutionRow{Priority: p, Rate: rate})
		}
	}
	return rows
}

// loadReport fetches every report section concurrently.
func (s *Server) loadReport(ctx context.Context) export.Report {
	svc, data := s.deps.Services.Reports, s.deps.Mocks
	r := export.Report{GeneratedAt: s.now()}
	var demo atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.Volume = section(s, gctx, "volume", func(ctx context.Context) (*models.TicketVolume, error) {
			return svc.TicketVolume(ctx, "6months")
		}, data.Volume, &demo)
		return nil
	})
	g.Go(func() error {
		r.ResponseTime = section(s, gctx, "response-time", svc.ResponseTime, data.ResponseTime, &demo)
		return nil
	})
	g.Go(func() error {
		r.ResolutionRate = section(s, gctx, "resolution-rate", svc.ResolutionRate, data.ResolutionRate, &demo)
		return nil
	})
	g.Go(func() error {
		r.Satisfaction = section(s, gctx, "satisfaction", svc.Satisfaction, data.Satisfaction, &demo)
		return nil
	})
	g.Go(func() error {
		r.Channels = section(s, gctx, "channels", svc.Channels, data.Channels, &demo)
		return nil
	})
	g.Go(func() error {
		r.AgentPerformance = section(s, gctx, "agent-performance", svc.AgentPerformance, data.AgentPerformance, &demo)
		return nil
	})
	_ = g.Wait()

	r.Demo = demo.Load()
	return r
}

func (s *Server) handleReports(c *gin.Context) {
	r := s.loadReport(c.Request.Context())
	if c.Request.Context().Err() != nil {
		return
	}

	responseMax := 1.0
	for _, p := range r.ResponseTime.Data {
		if p.AvgTime > responseMax {
			responseMax = p.AvgTime
		}
	}

	s.render(c, http.StatusOK, "pages/reports.pongo2", "reports.title", pongo2.Context{
		"Demo":           r.Demo,
		"Report":         r,
		"ResolutionRows": resolutionRows(r.ResolutionRate),
		"VolumeMax":      volumeMax(r.Volume),
		"ResponseMax":    responseMax,
	})
}

func (s *Server) handleReportsExport(c *gin.Context) {
	r := s.loadReport(c.Request.Context())
	if middleware.Unauthorized(c) {
		s.toLogin(c)
		return
	}

	var buf bytes.Buffer
	tr := func(key string, args ...interface{}) string { return s.t(c, key, args...) }
	if err := export.WriteXLSX(&buf, r, tr); err != nil {
		s.logger.Error("report export failed", slog.Any("error", err))
		s.errorPage(c, http.StatusInternalServerError, "errors.unexpected")
		return
	}

	name := fmt.Sprintf("report-%s.xlsx", r.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

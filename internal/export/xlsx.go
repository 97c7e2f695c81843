// Package export writes the reports page to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

// Report is everything the reports page shows.
type Report struct {
	GeneratedAt      time.Time
	Volume           models.TicketVolume
	ResponseTime     models.ResponseTime
	ResolutionRate   models.ResolutionRate
	Satisfaction     models.Satisfaction
	Channels         models.Channels
	AgentPerformance models.AgentPerformance
	// Demo is set when any section came from bundled data.
	Demo bool
}

// Translate resolves a label key in the viewer's language.
type Translate func(key string, args ...interface{}) string

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
	widths []float64
}

// WriteXLSX renders r as a workbook with one sheet per report section.
func WriteXLSX(w io.Writer, r Report, t Translate) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1890FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sheets := buildSheets(r, t)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.name, err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+1, err)
		}
	}

	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func buildSheets(r Report, t Translate) []sheet {
	summary := sheet{
		name:   "Summary",
		header: []string{t("reports.title"), ""},
		widths: []float64{28, 24},
		rows: [][]interface{}{
			{"Generated", r.GeneratedAt.Format(time.RFC3339)},
			{t("reports.resolutionRate"), r.ResolutionRate.Overall},
			{t("reports.customerSatisfaction"), r.Satisfaction.Score},
		},
	}
	if r.Demo {
		summary.rows = append(summary.rows, []interface{}{t("common.demoData"), ""})
	}

	volume := sheet{
		name:   "Volume",
		header: []string{"Month", t("reports.tickets"), t("reports.resolved")},
		widths: []float64{14, 12, 12},
	}
	for _, p := range r.Volume.Data {
		volume.rows = append(volume.rows, []interface{}{p.Month, p.Tickets, p.Resolved})
	}

	response := sheet{
		name:   "Response Time",
		header: []string{"Month", t("reports.hours")},
		widths: []float64{14, 12},
	}
	for _, p := range r.ResponseTime.Data {
		response.rows = append(response.rows, []interface{}{p.Month, p.AvgTime})
	}

	resolution := sheet{
		name:   "Resolution Rate",
		header: []string{t("tickets.priority"), t("reports.resolutionRate")},
		widths: []float64{14, 16},
	}
	for _, p := range models.TicketPriorities {
		if rate, ok := r.ResolutionRate.ByPriority[p]; ok {
			resolution.rows = append(resolution.rows, []interface{}{t("priority." + string(p)), rate})
		}
	}

	satisfaction := sheet{
		name:   "Satisfaction",
		header: []string{"Level", "%"},
		widths: []float64{20, 10},
	}
	for _, l := range r.Satisfaction.Distribution {
		satisfaction.rows = append(satisfaction.rows, []interface{}{l.Level, l.Percentage})
	}

	channels := sheet{
		name:   "Channels",
		header: []string{t("reports.channels"), "%", t("reports.tickets")},
		widths: []float64{16, 10, 12},
	}
	for _, c := range r.Channels.Data {
		channels.rows = append(channels.rows, []interface{}{c.Channel, c.Percentage, c.Count})
	}

	agents := sheet{
		name:   "Agents",
		header: []string{"Name", t("reports.resolved"), t("dashboard.avgResponseTime"), t("reports.customerSatisfaction")},
		widths: []float64{20, 12, 18, 18},
	}
	for _, a := range r.AgentPerformance.Data {
		agents.rows = append(agents.rows, []interface{}{a.Name, a.TicketsResolved, a.AvgResponseTime, a.Satisfaction})
	}

	return []sheet{summary, volume, response, resolution, satisfaction, channels, agents}
}

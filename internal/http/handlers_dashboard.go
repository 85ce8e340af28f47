package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vendas/internal/core"
)

type barRow struct {
	Label  string
	Amount string
	Width  int
}

type rangeView struct {
	Active    bool
	Start     string
	End       string
	Error     string
	Total     string
	ByDay     []barRow
	ByProduct []barRow
}

type dashboardView struct {
	Today string
	Last7 string
	Month string

	TodayByProduct []barRow
	Last7ByDay     []barRow
	MonthByDay     []barRow

	Range rangeView
}

func dayRows(buckets []core.DayBucket) []barRow {
	var max float64
	for _, b := range buckets {
		if b.Revenue > max {
			max = b.Revenue
		}
	}
	rows := make([]barRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, barRow{
			Label:  b.Day.Format("02/01"),
			Amount: formatBRL(b.Revenue),
			Width:  barWidth(b.Revenue, max),
		})
	}
	return rows
}

func productRows(buckets []core.ProductBucket) []barRow {
	var max float64
	for _, b := range buckets {
		if b.Revenue > max {
			max = b.Revenue
		}
	}
	rows := make([]barRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, barRow{
			Label:  b.Name,
			Amount: formatBRL(b.Revenue),
			Width:  barWidth(b.Revenue, max),
		})
	}
	return rows
}

// handleDashboard renders the KPI dashboard, with an optional
// start/end date filter for an ad-hoc range report.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	ov, err := s.app.Overview(r.Context(), now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview error", "error", err)
		http.Error(w, "erro ao carregar o dashboard", http.StatusInternalServerError)
		return
	}

	data := dashboardView{
		Today:          formatBRL(ov.TodayRevenue),
		Last7:          formatBRL(ov.Last7Revenue),
		Month:          formatBRL(ov.MonthRevenue),
		TodayByProduct: productRows(ov.TodayByProduct),
		Last7ByDay:     dayRows(ov.Last7ByDay),
		MonthByDay:     dayRows(ov.MonthByDay),
	}

	startStr := strings.TrimSpace(r.URL.Query().Get("start"))
	endStr := strings.TrimSpace(r.URL.Query().Get("end"))
	if startStr != "" || endStr != "" {
		data.Range = s.rangeReport(r, startStr, endStr)
	}

	s.renderTemplate(w, r, "dashboard.html", data, http.StatusOK)
}

func (s *Server) rangeReport(r *http.Request, startStr, endStr string) rangeView {
	view := rangeView{Active: true, Start: startStr, End: endStr}

	start, err := parseDate(startStr)
	if err != nil {
		view.Error = "data inicial inválida"
		return view
	}
	end, err := parseDate(endStr)
	if err != nil {
		view.Error = "data final inválida"
		return view
	}
	if end.Before(start) {
		view.Error = "a data final deve ser posterior à inicial"
		return view
	}

	report, err := s.app.ReportRange(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Range report error", "error", err, "start", startStr, "end", endStr)
		view.Error = "erro ao gerar o relatório"
		return view
	}

	view.Total = formatBRL(report.Total)
	view.ByDay = dayRows(report.ByDay)
	view.ByProduct = productRows(report.ByProduct)
	return view
}

package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"ydvendas/backend/internal/domain"
)

// Selection is the set of sale ids marked for inclusion in an export. A
// fresh selection starts with every sale of the current filtered view
// included.
type Selection map[int64]struct{}

func NewSelection(sales []domain.Sale) Selection {
	sel := make(Selection, len(sales))
	for _, sale := range sales {
		sel[sale.ID] = struct{}{}
	}
	return sel
}

func SelectionFromIDs(ids []int64) Selection {
	sel := make(Selection, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	return sel
}

// Toggle flips membership of id; toggling twice restores the original set.
func (sel Selection) Toggle(id int64) {
	if _, ok := sel[id]; ok {
		delete(sel, id)
	} else {
		sel[id] = struct{}{}
	}
}

func (sel Selection) Contains(id int64) bool {
	_, ok := sel[id]
	return ok
}

// Apply keeps the sales whose id is selected, preserving order.
func (sel Selection) Apply(sales []domain.Sale) []domain.Sale {
	selected := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if sel.Contains(sale.ID) {
			selected = append(selected, sale)
		}
	}
	return selected
}

// ComputeReportTotals sums revenue, cost and profit over the given sales
// using only their frozen price fields. An empty input yields all zeros.
func ComputeReportTotals(sales []domain.Sale) domain.ReportTotals {
	var totals domain.ReportTotals
	for _, sale := range sales {
		totals.RevenueCents += sale.TotalPriceCents
		totals.CostCents += sale.CostPriceCents * int64(sale.Quantity)
	}
	totals.ProfitCents = totals.RevenueCents - totals.CostCents
	return totals
}

// BuildSalesReport assembles the export payload for the period: the header
// identity, the ordered row data and the financial summary. A nil
// selectedIDs slice means every sale of the filtered view is included.
func (s *Service) BuildSalesReport(ctx context.Context, period domain.ReportPeriod, selectedIDs []int64) (domain.SalesReport, error) {
	actor, _ := ActorFromContext(ctx)

	sales, err := s.ListSales(ctx, period)
	if err != nil {
		return domain.SalesReport{}, err
	}

	sel := NewSelection(sales)
	if selectedIDs != nil {
		sel = SelectionFromIDs(selectedIDs)
	}
	selected := sel.Apply(sales)

	rows := make([]domain.ReportRow, 0, len(selected))
	for _, sale := range selected {
		rows = append(rows, domain.ReportRow{
			SaleID:          sale.ID,
			ProductName:     sale.ProductName,
			Quantity:        sale.Quantity,
			UnitPriceCents:  sale.SalePriceCents,
			TotalPriceCents: sale.TotalPriceCents,
			Date:            sale.Date,
		})
	}

	return domain.SalesReport{
		GeneratedBy: actor.Name,
		Period:      period,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		Totals:      ComputeReportTotals(selected),
	}, nil
}

// PeriodLabel is the human label used in report headers and subjects.
func PeriodLabel(period domain.ReportPeriod) string {
	switch period {
	case domain.PeriodWeek:
		return "Semanal"
	case domain.PeriodMonth:
		return "Mensal"
	default:
		return "Completo"
	}
}

// FormatCents renders integer cents as a currency amount, e.g. 1550 ->
// "R$ 15.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d.%02d", sign, cents/100, cents%100)
}

// ComposeReportMessage builds the prefilled outbound message for the
// report: subject, body with the three summary numbers, and a mailto URL
// for the platform's default mail handler.
func ComposeReportMessage(report domain.SalesReport, recipient string) domain.ReportMessage {
	subject := fmt.Sprintf("Relatório de Vendas YD - %s", PeriodLabel(report.Period))
	body := fmt.Sprintf(
		"Olá,\n\nSegue resumo das vendas selecionadas:\nReceita: %s\nCusto: %s\nLucro: %s\n\nGerado via YD Vendas.",
		FormatCents(report.Totals.RevenueCents),
		FormatCents(report.Totals.CostCents),
		FormatCents(report.Totals.ProfitCents),
	)

	return domain.ReportMessage{
		Subject:   subject,
		Body:      body,
		MailtoURL: fmt.Sprintf("mailto:%s?subject=%s&body=%s", recipient, url.QueryEscape(subject), url.QueryEscape(body)),
	}
}

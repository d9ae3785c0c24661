package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ydvendas/backend/internal/cache"
	"ydvendas/backend/internal/domain"
	"ydvendas/backend/internal/store/memory"
)

func TestSelectionToggleIsIdempotentPairwise(t *testing.T) {
	sales := []domain.Sale{{ID: 1}, {ID: 2}, {ID: 3}}
	sel := NewSelection(sales)

	if len(sel) != 3 {
		t.Fatalf("fresh selection must include every sale, got %d", len(sel))
	}

	sel.Toggle(2)
	if sel.Contains(2) {
		t.Fatalf("expected sale 2 deselected after first toggle")
	}
	sel.Toggle(2)
	if !sel.Contains(2) {
		t.Fatalf("expected sale 2 selected again after second toggle")
	}
	if len(sel) != 3 {
		t.Fatalf("double toggle must restore the original set, got %d", len(sel))
	}
}

func TestComputeReportTotalsEmptySelectionIsZero(t *testing.T) {
	totals := ComputeReportTotals(nil)
	if totals.RevenueCents != 0 || totals.CostCents != 0 || totals.ProfitCents != 0 {
		t.Fatalf("expected zero totals for empty selection, got %+v", totals)
	}
}

func TestComputeReportTotalsUsesFrozenFields(t *testing.T) {
	sales := []domain.Sale{
		{ID: 1, Quantity: 3, CostPriceCents: 2000, TotalPriceCents: 10000},
	}

	totals := ComputeReportTotals(sales)
	if totals.RevenueCents != 10000 {
		t.Fatalf("expected revenue 10000, got %d", totals.RevenueCents)
	}
	if totals.CostCents != 6000 {
		t.Fatalf("expected cost 6000, got %d", totals.CostCents)
	}
	if totals.ProfitCents != 4000 {
		t.Fatalf("expected profit 4000, got %d", totals.ProfitCents)
	}
}

func TestBuildSalesReportDefaultsToAllSelected(t *testing.T) {
	repo := memory.New()
	svc := New(repo, cache.NoopStatsCache{}, time.Minute)
	ctx := WithActor(context.Background(), domain.Actor{UserID: 1, Name: "Yasmin", Email: "yasmin@example.com"})

	product := mustCreateProduct(t, svc, domain.ProductCreateRequest{
		Name:           "Caneca",
		SalePriceCents: 3500,
		CostPriceCents: 1400,
		Stock:          10,
	})

	first, err := svc.RecordSale(ctx, domain.SaleCreateRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleCreateRequest{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	report, err := svc.BuildSalesReport(ctx, domain.PeriodWeek, nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.GeneratedBy != "Yasmin" {
		t.Fatalf("expected report header to carry the acting user, got %q", report.GeneratedBy)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("nil selection must include every filtered sale, got %d rows", len(report.Rows))
	}
	if report.Totals.RevenueCents != 3500*3 {
		t.Fatalf("expected revenue 10500, got %d", report.Totals.RevenueCents)
	}

	partial, err := svc.BuildSalesReport(ctx, domain.PeriodWeek, []int64{first.ID})
	if err != nil {
		t.Fatalf("build partial report: %v", err)
	}
	if len(partial.Rows) != 1 || partial.Rows[0].SaleID != first.ID {
		t.Fatalf("explicit selection must restrict the rows, got %+v", partial.Rows)
	}
	if partial.Totals.RevenueCents != 3500 {
		t.Fatalf("expected partial revenue 3500, got %d", partial.Totals.RevenueCents)
	}
	if partial.Totals.CostCents != 1400 {
		t.Fatalf("expected partial cost 1400, got %d", partial.Totals.CostCents)
	}
	if partial.Totals.ProfitCents != 2100 {
		t.Fatalf("expected partial profit 2100, got %d", partial.Totals.ProfitCents)
	}
}

func TestBuildSalesReportEmptySelection(t *testing.T) {
	repo := memory.New()
	svc := New(repo, cache.NoopStatsCache{}, time.Minute)
	ctx := WithActor(context.Background(), domain.Actor{UserID: 1, Name: "Yasmin"})

	product := mustCreateProduct(t, svc, domain.ProductCreateRequest{
		Name:           "Caneca",
		SalePriceCents: 3500,
		Stock:          5,
	})
	if _, err := svc.RecordSale(ctx, domain.SaleCreateRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	report, err := svc.BuildSalesReport(ctx, domain.PeriodAll, []int64{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rows) != 0 {
		t.Fatalf("empty selection must yield no rows, got %d", len(report.Rows))
	}
	if report.Totals != (domain.ReportTotals{}) {
		t.Fatalf("empty selection must yield zero totals, got %+v", report.Totals)
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(1550); got != "R$ 15.50" {
		t.Fatalf("expected R$ 15.50, got %q", got)
	}
	if got := FormatCents(5); got != "R$ 0.05" {
		t.Fatalf("expected R$ 0.05, got %q", got)
	}
	if got := FormatCents(-1234); got != "-R$ 12.34" {
		t.Fatalf("expected -R$ 12.34, got %q", got)
	}
}

func TestComposeReportMessageCarriesSummaryNumbers(t *testing.T) {
	report := domain.SalesReport{
		Period: domain.PeriodWeek,
		Totals: domain.ReportTotals{RevenueCents: 10000, CostCents: 6000, ProfitCents: 4000},
	}

	msg := ComposeReportMessage(report, "yasmin@example.com")
	if msg.Subject != "Relatório de Vendas YD - Semanal" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"R$ 100.00", "R$ 60.00", "R$ 40.00"} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q: %q", want, msg.Body)
		}
	}
	if !strings.HasPrefix(msg.MailtoURL, "mailto:yasmin@example.com?") {
		t.Fatalf("unexpected mailto url %q", msg.MailtoURL)
	}
}

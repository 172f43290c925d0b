package httpserver

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/possync/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func period(r *http.Request) domain.ReportPeriod {
	q := r.URL.Query()
	return domain.ReportPeriod{Period: q.Get("period"), DateMin: q.Get("date_min"), DateMax: q.Get("date_max")}
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.Reports.Dashboard(r.Context(), period(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// apiSales answers JSON, or a spreadsheet with ?format=xlsx.
func (s *Server) apiSales(w http.ResponseWriter, r *http.Request) {
	p := period(r)
	rep, err := s.Reports.Sales(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("format") != "xlsx" {
		writeJSON(w, http.StatusOK, rep)
		return
	}
	f, err := salesWorkbook(rep)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", salesFileName(p)))
	if err := f.Write(w); err != nil {
		s.fail(w, r, err)
	}
}

func salesFileName(p domain.ReportPeriod) string {
	switch {
	case p.Period != "":
		return "sales-" + p.Period + ".xlsx"
	case p.DateMin != "" || p.DateMax != "":
		return "sales-" + p.DateMin + "_" + p.DateMax + ".xlsx"
	}
	return "sales.xlsx"
}

const (
	summarySheet = "Summary"
	bucketSheet  = "Totals"
)

// salesWorkbook lays the report out as a summary sheet plus one row per bucket.
func salesWorkbook(rep domain.SalesReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Total sales", rep.TotalSales.InexactFloat64()},
		{"Net sales", rep.NetSales.InexactFloat64()},
		{"Average sales", rep.AverageSales.InexactFloat64()},
		{"Orders", rep.TotalOrders},
		{"Items", rep.TotalItems},
		{"Tax", rep.TotalTax.InexactFloat64()},
		{"Shipping", rep.TotalShipping.InexactFloat64()},
		{"Refunds", rep.TotalRefunds.InexactFloat64()},
		{"Discount", rep.TotalDiscount.InexactFloat64()},
		{"Customers", rep.TotalCustomers},
		{"Grouped by", rep.TotalsGroupedBy},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(bucketSheet); err != nil {
		f.Close()
		return nil, err
	}
	keys := make([]string, 0, len(rep.Totals))
	for k := range rep.Totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := [][]any{{"Bucket", "Sales", "Orders", "Items", "Tax", "Shipping", "Discount", "Customers"}}
	for _, k := range keys {
		t := rep.Totals[k]
		rows = append(rows, []any{
			k, t.Sales.InexactFloat64(), t.Orders, t.Items,
			t.Tax.InexactFloat64(), t.Shipping.InexactFloat64(), t.Discount.InexactFloat64(), t.Customers,
		})
	}
	if err := writeRows(f, bucketSheet, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func (s *Server) apiTopSellers(w http.ResponseWriter, r *http.Request) {
	top, err := s.Reports.TopSellers(r.Context(), period(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) apiTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.Reports.Totals(r.Context(), domain.TotalsKind(chi.URLParam(r, "kind")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

package bill

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dudhiya-collection/internal/valuation"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func testBuilder() *Builder {
	b := NewBuilder("Gokul Dairy", 9.0)
	b.now = func() time.Time { return time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC) }
	b.numberFn = func() string { return "BILL-TEST000001" }
	return b
}

func sampleEntries() []Entry {
	return []Entry{
		{
			Customer: "Ramesh", Date: "2025-01-15", Time: "morning", MilkType: "cow",
			Measurement: valuation.Measurement{WeightKg: 100, FatPercentage: 4.0, SNFPercentage: 8.5, MilkRate: 50},
		},
		{
			Customer: "Sita", Date: "2025-01-15", Time: "evening", MilkType: "buffalo",
			Measurement: valuation.Measurement{WeightKg: 10, FatPercentage: 4.567, SNFPercentage: 8.789, MilkRate: 50, BaseSNFPercentage: 9.0},
		},
	}
}

func TestBuild_RowsAndTotals(t *testing.T) {
	b, err := testBuilder().Build(sampleEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if b.Number != "BILL-TEST000001" || b.Dairy != "Gokul Dairy" {
		t.Fatalf("unexpected header: %+v", b)
	}
	if len(b.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(b.Rows))
	}
	// Base SNF filled from the builder.
	nearlyEqual(t, "row0 base snf", b.Rows[0].BaseSNFPercentage, 9.0)
	nearlyEqual(t, "row0 amount", b.Rows[0].Result.Amount, 3735.04)
	nearlyEqual(t, "row0 cum", b.Rows[0].CumAmount, 3735.04)
	nearlyEqual(t, "row1 amount", b.Rows[1].Result.Amount, 401.03)
	nearlyEqual(t, "row1 cum", b.Rows[1].CumAmount, 4136.07)

	tot := b.Totals
	if tot.Entries != 2 {
		t.Fatalf("entries = %d, want 2", tot.Entries)
	}
	nearlyEqual(t, "weight", tot.WeightKg, 110)
	nearlyEqual(t, "liters", tot.Liters, 107.58)
	nearlyEqual(t, "fatKg", tot.FatKg, 4.45)
	nearlyEqual(t, "snfKg", tot.SNFKg, 9.37)
	nearlyEqual(t, "amount", tot.Amount, 4136.07)
	nearlyEqual(t, "avg", tot.AverageRate, 37.60)
}

func TestBuild_ErrorCarriesRowIndex(t *testing.T) {
	entries := sampleEntries()
	entries[1].FatPercentage = 13.5

	_, err := testBuilder().Build(entries)
	if err == nil || !strings.HasPrefix(err.Error(), "entry 1:") {
		t.Fatalf("expected entry 1 error, got %v", err)
	}
	var verr *valuation.ValidationError
	if !errors.As(err, &verr) || !verr.Has(valuation.FieldFatPercentage) {
		t.Fatalf("expected wrapped ValidationError, got %v", err)
	}
}

func TestBuild_RejectsBadShiftAndDate(t *testing.T) {
	entries := sampleEntries()
	entries[0].Time = "noon"
	if _, err := testBuilder().Build(entries); err == nil {
		t.Fatalf("expected error for bad shift")
	}

	entries = sampleEntries()
	entries[0].Date = "15-01-2025"
	if _, err := testBuilder().Build(entries); err == nil {
		t.Fatalf("expected error for bad date")
	}

	if _, err := testBuilder().Build(nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestNewBuilder_FallsBackToCalculatorBaseSNF(t *testing.T) {
	b := NewBuilder("", 8.7)
	if b.BaseSNFPercentage != 9.0 {
		t.Fatalf("base snf = %v, want 9.0", b.BaseSNFPercentage)
	}
	if got := newBillNumber(); !strings.HasPrefix(got, "BILL-") || len(got) != 15 {
		t.Fatalf("unexpected bill number %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	b, err := testBuilder().Build(sampleEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, b); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Fatalf("unexpected header %v", records[0])
	}

	col := func(name string) int {
		for i, h := range csvHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}
	if got := records[2][col("cum_amount")]; got != "4136.07" {
		t.Fatalf("cum_amount = %q, want 4136.07", got)
	}
	if got := records[1][col("clr")]; got != "30.240" {
		t.Fatalf("clr = %q, want 30.240", got)
	}
	if got := records[2][col("customer")]; got != "Sita" {
		t.Fatalf("customer = %q, want Sita", got)
	}
	if got := records[2][col("fat_percentage")]; got != "4.567" {
		t.Fatalf("fat_percentage = %q, want 4.567 as entered", got)
	}
	if got := records[2][col("snf_percentage")]; got != "8.789" {
		t.Fatalf("snf_percentage = %q, want 8.789 as entered", got)
	}
	if got := records[1][col("fat_percentage")]; got != "4" {
		t.Fatalf("fat_percentage = %q, want 4", got)
	}
}

func TestWriteCSVFile(t *testing.T) {
	b, err := testBuilder().Build(sampleEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path := filepath.Join(t.TempDir(), "results", "bill.csv")
	if err := WriteCSVFile(path, b); err != nil {
		t.Fatalf("WriteCSVFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(raw), "index,date,time,customer") {
		t.Fatalf("unexpected file contents: %q", raw[:40])
	}
}

func TestRenderPDF(t *testing.T) {
	b, err := testBuilder().Build(sampleEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	out, err := RenderPDF(b, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}

	if _, err := RenderPDF(&Bill{}, time.Now()); err == nil {
		t.Fatalf("expected error for empty bill")
	}
}

func TestRenderPDF_ManyRowsPaginates(t *testing.T) {
	entries := make([]Entry, 0, 80)
	for i := 0; i < 80; i++ {
		entries = append(entries, sampleEntries()[i%2])
	}
	b, err := testBuilder().Build(entries)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out, err := RenderPDF(b, time.Now())
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if bytes.Count(out, []byte("/Type /Page\n")) < 2 {
		t.Fatalf("expected more than one page")
	}
}

func TestParseEntries(t *testing.T) {
	yamlBody := `
dairy: Gokul
entries:
  - customer: Ramesh
    date: "2025-01-15"
    time: morning
    weight_kg: 12.5
    fat_percentage: 6.2
    snf_percentage: 8.9
    milk_rate: 52
`
	batch, err := ParseEntries([]byte(yamlBody), ".yml")
	if err != nil {
		t.Fatalf("ParseEntries yaml: %v", err)
	}
	if batch.Dairy != "Gokul" || len(batch.Entries) != 1 || batch.Entries[0].WeightKg != 12.5 {
		t.Fatalf("unexpected yaml batch: %+v", batch)
	}

	jsonBody := `{"entries":[{"customer":"Sita","weight_kg":8,"fat_percentage":7,"snf_percentage":9,"milk_rate":60,"base_snf_percentage":9.2}]}`
	batch, err = ParseEntries([]byte(jsonBody), ".json")
	if err != nil {
		t.Fatalf("ParseEntries json: %v", err)
	}
	if batch.Entries[0].BaseSNFPercentage != 9.2 || batch.Entries[0].Customer != "Sita" {
		t.Fatalf("unexpected json batch: %+v", batch)
	}

	if _, err := ParseEntries([]byte(`{"entries":[]}`), ".json"); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestLoadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	body := `{"entries":[{"customer":"Sita","weight_kg":8,"fat_percentage":7,"snf_percentage":9,"milk_rate":60}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	batch, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(batch.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(batch.Entries))
	}
}

func TestLayoutPDF_TotalsStayOnPage(t *testing.T) {
	for _, n := range []int{1, 20, 30, 35, 36, 40, 60, 80} {
		entries := make([]Entry, 0, n)
		for i := 0; i < n; i++ {
			entries = append(entries, sampleEntries()[i%2])
		}
		b, err := testBuilder().Build(entries)
		if err != nil {
			t.Fatalf("Build(%d): %v", n, err)
		}

		pdf, err := layoutPDF(b, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("layoutPDF(%d): %v", n, err)
		}
		_, pageH := pdf.GetPageSize()
		if y := pdf.GetY(); y > pageH-bottomMargin {
			t.Fatalf("%d rows: totals end at y=%.2f, page height %.2f", n, y, pageH)
		}
	}
}

func TestRenderPDF_PrintsCLRAtThreePlaces(t *testing.T) {
	var clr pdfColumn
	for _, c := range pdfColumns {
		if c.title == "CLR" {
			clr = c
		}
	}
	if clr.value == nil {
		t.Fatalf("no CLR column")
	}
	b, err := testBuilder().Build(sampleEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := clr.value(b.Rows[0]); got != "30.240" {
		t.Fatalf("clr cell = %q, want 30.240", got)
	}
}

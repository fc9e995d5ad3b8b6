package bill

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"dudhiya-collection/internal/valuation"
)

var csvHeader = []string{
	"index",
	"date",
	"time",
	"customer",
	"milk_type",
	"weight_kg",
	"liters",
	"fat_percentage",
	"snf_percentage",
	"fat_kg",
	"snf_kg",
	"clr",
	"fat_rate",
	"snf_rate",
	"milk_rate",
	"base_snf_percentage",
	"amount",
	"cum_amount",
	"solid_weight",
}

// WriteCSV writes one header line and one line per row.
func WriteCSV(out io.Writer, b *Bill) error {
	if b == nil {
		return errors.New("bill is nil")
	}

	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range b.Rows {
		row := []string{
			strconv.Itoa(r.Index),
			r.Date,
			r.Time,
			r.Customer,
			r.MilkType,
			fmtFloat(r.WeightKg, 3),
			fmtFloat(r.Result.Liters, 2),
			fmtEntered(r.FatPercentage),
			fmtEntered(r.SNFPercentage),
			fmtFloat(r.Result.FatKg, 2),
			fmtFloat(r.Result.SNFKg, 2),
			fmtFloat(r.Result.CLR, 3),
			fmtFloat(r.Result.FatRate, 3),
			fmtFloat(r.Result.SNFRate, 3),
			fmtFloat(r.MilkRate, 2),
			fmtFloat(r.BaseSNFPercentage, 1),
			fmtFloat(r.Result.Amount, 2),
			fmtFloat(r.CumAmount, 2),
			fmtFloat(r.Result.SolidWeight, 3),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteCSVFile writes the bill to path, creating parent directories.
func WriteCSVFile(path string, b *Bill) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64, places int32) string {
	return valuation.FormatFixed(x, places)
}

// fmtEntered prints an input exactly as recorded.
func fmtEntered(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

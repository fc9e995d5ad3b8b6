package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/bill"
	"dudhiya-collection/internal/config"
	"dudhiya-collection/internal/reconcile"
	"dudhiya-collection/internal/valuation"
	"dudhiya-collection/pkg/clients/dudhiya"
	"dudhiya-collection/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "value":
		cmdValue(os.Args[2:])
	case "snf":
		cmdSNF(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "bill":
		cmdBill(os.Args[2:])
	case "reconcile":
		cmdReconcile(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli value --weight 100 --fat 4.0 --snf 8.5 --rate 50 [--base-snf 9.0]")
	fmt.Println("  cli snf --clr 28 --fat 4.0")
	fmt.Println("  cli compare --qty 10 --rate 50 --fat 6.5 (--snf 9.0 | --clr 28)")
	fmt.Println("  cli bill --entries entries.yaml --out results/bill.csv [--pdf results/bill.pdf]")
	fmt.Println("  cli reconcile --pages 1")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - value prints the collection screen breakdown at display precision")
	fmt.Println("  - reconcile reads BACKEND_BASE_URL and BACKEND_TOKEN from the environment or .env")
}

func cmdValue(args []string) {
	fs := flag.NewFlagSet("value", flag.ExitOnError)
	settingsPath := fs.String("settings", "", "Optional: dairy settings YAML")
	weight := fs.Float64("weight", 0, "Weight in kg")
	fat := fs.Float64("fat", 0, "Fat %")
	snf := fs.Float64("snf", 0, "SNF %")
	rate := fs.Float64("rate", 0, "Milk rate per kg fat")
	baseSNF := fs.Float64("base-snf", 0, "Base SNF % (default from settings)")
	_ = fs.Parse(args)

	settings := mustSettings(*settingsPath)
	m := valuation.Measurement{
		WeightKg:          *weight,
		FatPercentage:     *fat,
		SNFPercentage:     *snf,
		MilkRate:          *rate,
		BaseSNFPercentage: *baseSNF,
	}
	if m.BaseSNFPercentage == 0 {
		m.BaseSNFPercentage = settings.CalculatorDefaultSNF()
	}

	res, err := valuation.Calculate(m)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	d := models.NewValuationDisplay(res)
	fmt.Printf("%-13s %s\n", "liters", d.Liters)
	fmt.Printf("%-13s %s\n", "fat kg", d.FatKg)
	fmt.Printf("%-13s %s\n", "snf kg", d.SNFKg)
	fmt.Printf("%-13s %s\n", "clr", d.CLR)
	fmt.Printf("%-13s %s\n", "fat rate", d.FatRate)
	fmt.Printf("%-13s %s\n", "snf rate", d.SNFRate)
	fmt.Printf("%-13s %s\n", "solid weight", d.SolidWeight)
	fmt.Printf("%-13s %s\n", "amount", d.Amount)
}

func cmdSNF(args []string) {
	fs := flag.NewFlagSet("snf", flag.ExitOnError)
	clr := fs.String("clr", "", "Lactometer reading")
	fat := fs.String("fat", "", "Fat %")
	_ = fs.Parse(args)

	snf, ok := valuation.SNFFromCLRText(*clr, *fat)
	if !ok {
		fmt.Println("snf: -")
		return
	}
	fmt.Printf("snf: %s\n", strconv.FormatFloat(snf, 'f', -1, 64))
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	qty := fs.Float64("qty", 0, "Quantity in kg")
	rate := fs.Float64("rate", 0, "Rate per kg fat")
	fat := fs.Float64("fat", 0, "Fat %")
	snf := fs.String("snf", "", "SNF % (wins over --clr)")
	clr := fs.String("clr", "", "Lactometer reading")
	_ = fs.Parse(args)

	in := valuation.CompareInput{QuantityKg: *qty, Rate: *rate, FatPercentage: *fat}
	in.SNFPercentage = optionalFloat("snf", *snf)
	in.CLR = optionalFloat("clr", *clr)

	res, err := valuation.Compare(in)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("%-6s %-10s %-10s %-12s %-10s\n", "side", "fat rate", "snf rate", "amount", "avg rate")
	fmt.Printf("%-6s %-10.3f %-10.3f %-12.2f %-10.2f\n", "buy", res.BuyFatRate, res.BuySNFRate, res.BuyAmount, res.BuyAvgRate)
	fmt.Printf("%-6s %-10.3f %-10.3f %-12.2f %-10.2f\n", "sell", res.SellFatRate, res.SellSNFRate, res.SellAmount, res.SellAvgRate)
	fmt.Printf("snf=%.2f%% fat kg=%.3f snf kg=%.3f profit=%.2f\n", res.SNFPercentage, res.FatKg, res.SNFKg, res.Profit)
}

func cmdBill(args []string) {
	fs := flag.NewFlagSet("bill", flag.ExitOnError)
	entriesPath := fs.String("entries", "", "Path to YAML or JSON entries file")
	settingsPath := fs.String("settings", "", "Optional: dairy settings YAML")
	outPath := fs.String("out", "results/bill.csv", "Output CSV path")
	pdfPath := fs.String("pdf", "", "Optional: also write a PDF bill")
	_ = fs.Parse(args)

	if *entriesPath == "" {
		fmt.Println("--entries is required")
		os.Exit(2)
	}

	settings := mustSettings(*settingsPath)
	batch, err := bill.LoadEntries(*entriesPath)
	if err != nil {
		panic(err)
	}
	dairy := batch.Dairy
	if dairy == "" {
		dairy = settings.Name
	}

	b, err := bill.NewBuilder(dairy, settings.CalculatorDefaultSNF()).Build(batch.Entries)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := bill.WriteCSVFile(*outPath, b); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(b.Rows), *outPath)

	if *pdfPath != "" {
		out, err := bill.RenderPDF(b, time.Now())
		if err != nil {
			panic(err)
		}
		if err := os.MkdirAll(filepath.Dir(*pdfPath), 0o755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(*pdfPath, out, 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s\n", *pdfPath)
	}
	fmt.Printf("Bill %s total=%.2f avg rate=%.2f\n", b.Number, b.Totals.Amount, b.Totals.AverageRate)
}

func cmdReconcile(args []string) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	envFile := fs.String("env", "", "Optional: .env file")
	pages := fs.Int("pages", 1, "Number of listing pages to check")
	pageSize := fs.Int("page-size", dudhiya.DefaultPageSize, "Collections per page")
	_ = fs.Parse(args)

	cfg, err := config.LoadEnv(*envFile)
	if err != nil {
		panic(err)
	}
	if cfg.Backend.BaseURL == "" {
		fmt.Println("BACKEND_BASE_URL is required")
		os.Exit(2)
	}

	log := logger.Must(logger.New(cfg.Server.Env))
	defer func() { _ = log.Sync() }()

	client := dudhiya.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token)
	rec := reconcile.New(client, *pageSize, log.Named("reconcile"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	rep, err := rec.Run(ctx, *pages)
	if rep != nil {
		fmt.Printf("checked=%d skipped=%d mismatches=%d pages=%d\n", rep.Checked, rep.SkippedTotal(), len(rep.Mismatches), rep.Pages)
		for _, m := range rep.Mismatches {
			fmt.Printf("  #%-8d %-13s stored=%-12s computed=%s\n", m.CollectionID, m.Field, m.Stored, m.Computed)
		}
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func mustSettings(path string) config.DairySettings {
	if path == "" {
		path = os.Getenv("DAIRY_SETTINGS_FILE")
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		panic(err)
	}
	return s
}

func optionalFloat(name, s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Printf("--%s must be a number\n", name)
		os.Exit(2)
	}
	return &v
}

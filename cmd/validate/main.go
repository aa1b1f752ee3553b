// Command validate runs one load through the configured warehouse and checks
// that the result is usable by the dashboard: the load succeeds, identifiers
// are unique, coordinates are in range, default filtering keeps every record,
// and the chart builders account for every record.
//
// Configuration comes from the same environment variables as the dashboard.
//
// Usage:
//
//	go run ./cmd/validate
//	go run ./cmd/validate -driver fixture -fixture data/mock/facilities.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/facility-dashboard/internal/app"
	"github.com/couchcryptid/facility-dashboard/internal/config"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
	"github.com/couchcryptid/facility-dashboard/internal/view"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	driver := flag.String("driver", "", "override WAREHOUSE_DRIVER")
	fixture := flag.String("fixture", "", "override FIXTURE_PATH")
	timeout := flag.Duration("timeout", time.Minute, "load timeout")
	verbose := flag.Bool("v", false, "log adapter activity to stderr")
	flag.Parse()

	_ = godotenv.Load()
	if *driver != "" {
		_ = os.Setenv("WAREHOUSE_DRIVER", *driver)
	}
	if *fixture != "" {
		_ = os.Setenv("FIXTURE_PATH", *fixture)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	// Always hit the warehouse itself.
	cfg.CacheTTL = 0

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		cfg.LogLevel, cfg.LogFormat = "debug", "text"
		logger = observability.NewLogger(cfg)
	}

	if code := run(cfg, *timeout, logger); code != 0 {
		os.Exit(code)
	}
}

func run(cfg *config.Config, timeout time.Duration, logger *slog.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Println("=== Facility Data Validation ===")
	fmt.Println()

	loader, closeLoader, err := app.OpenLoader(ctx, cfg, logger, observability.NewMetricsForTesting())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open %s warehouse: %v\n", cfg.WarehouseDriver, err)
		return 1
	}
	defer closeLoader()

	fmt.Printf("Driver: %s\n", cfg.WarehouseDriver)
	fmt.Printf("Query:  %s\n", loader.Query())

	start := time.Now()
	ds, err := loader.Load(ctx)
	elapsed := time.Since(start)

	load := &phase{name: "Load"}
	if err != nil {
		load.errorf("%s error: %v", domain.ErrorKind(err), err)
	}

	phases := []*phase{load}
	if load.passed() {
		phases = append(phases,
			validateIdentity(ds),
			validateCoordinates(ds),
			validateDefaultFilter(ds),
			validateViews(ds),
		)
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	if load.passed() {
		printStats(ds, elapsed)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == 20 {
				fmt.Printf("  ... %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateIdentity(ds domain.Dataset) *phase {
	p := &phase{name: "Identity: non-empty, unique facility IDs"}
	if ds.Len() == 0 {
		p.errorf("dataset is empty")
	}
	seen := make(map[string]int, ds.Len())
	for i, f := range ds.Records {
		if f.ID == "" {
			p.errorf("row %d: empty facility ID", i)
			continue
		}
		if first, ok := seen[f.ID]; ok {
			p.errorf("row %d: facility ID %q duplicates row %d", i, f.ID, first)
			continue
		}
		seen[f.ID] = i
	}
	return p
}

func validateCoordinates(ds domain.Dataset) *phase {
	p := &phase{name: "Coordinates: within WGS-84 bounds"}
	for i, f := range ds.Records {
		if f.Lat < -90 || f.Lat > 90 {
			p.errorf("row %d (%s): latitude %g out of range", i, f.ID, f.Lat)
		}
		if f.Lon < -180 || f.Lon > 180 {
			p.errorf("row %d (%s): longitude %g out of range", i, f.ID, f.Lon)
		}
		if f.Lat == 0 && f.Lon == 0 {
			p.errorf("row %d (%s): coordinate is 0,0", i, f.ID)
		}
	}
	return p
}

func validateDefaultFilter(ds domain.Dataset) *phase {
	p := &phase{name: "Filter: defaults keep every record"}
	got := domain.Filter(ds, domain.DefaultCriteria(ds))
	if got.Len() != ds.Len() {
		p.errorf("default criteria kept %d of %d records", got.Len(), ds.Len())
	}
	return p
}

func validateViews(ds domain.Dataset) *phase {
	p := &phase{name: "Views: charts and map account for all records"}

	h := view.BuildHistogram(ds)
	var binned int
	for _, b := range h.Bins {
		binned += b.Count
	}
	if binned != ds.Len() {
		p.errorf("histogram bins hold %d of %d records", binned, ds.Len())
	}

	if total := view.BuildBarChart(ds).Total(); total != ds.Len() {
		p.errorf("bar chart counts %d of %d records", total, ds.Len())
	}

	m := view.BuildMap(ds, view.MapOptions{})
	if len(m.Markers) != ds.Len() {
		p.errorf("map has %d markers for %d records", len(m.Markers), ds.Len())
	}
	return p
}

func printStats(ds domain.Dataset, elapsed time.Duration) {
	b := ds.Bounds()
	counts := domain.FlagCounts(ds)
	flags := make([]int, 0, len(counts))
	for f := range counts {
		flags = append(flags, f)
	}
	sort.Ints(flags)

	fmt.Println()
	fmt.Printf("Records: %d (loaded in %s)\n", ds.Len(), elapsed.Round(time.Millisecond))
	fmt.Printf("Elevation: min=%g max=%g ft\n", b.Min, b.Max)
	fmt.Print("Active flag:")
	for _, f := range flags {
		fmt.Printf(" %d=%d", f, counts[f])
	}
	fmt.Println()
}

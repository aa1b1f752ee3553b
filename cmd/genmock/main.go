// Command genmock writes a deterministic facility survey fixture for the
// fixture warehouse driver and the test suites. The rows are decoded with
// the same domain code the dashboard uses, so a fixture that fails here
// would fail the dashboard too.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/facilities.json -n 250 -seed 1309
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// San Jose, the default map center.
const (
	centerLat = 37.3382
	centerLon = -121.8863
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/facilities.json", "output path for the fixture")
	n := flag.Int("n", 250, "number of facilities to generate")
	seed := flag.Uint64("seed", 1309, "random seed")
	flag.Parse()

	if *n <= 0 {
		flag.Usage()
		return fmt.Errorf("-n must be positive")
	}

	rows := generate(*n, *seed)

	ds, err := domain.DecodeRows(rows)
	if err != nil {
		return fmt.Errorf("generated rows do not decode: %w", err)
	}

	if err := writeJSON(*out, rows); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d rows)", *out, len(rows))

	printStats(ds, rows)
	return nil
}

func generate(n int, seed uint64) []domain.Row {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rows := make([]domain.Row, 0, n)
	for i := range n {
		// Foothill sites sit east of downtown and higher up.
		foothill := r.Float64() < 0.3
		lat := centerLat + r.NormFloat64()*0.04
		lon := centerLon + r.NormFloat64()*0.05
		elev := 90 + r.NormFloat64()*35
		if foothill {
			lon += 0.08
			elev = 450 + r.NormFloat64()*120
		}

		var active any
		switch p := r.Float64(); {
		case p < 0.04:
			active = nil
		case p < 0.25:
			active = 0
		default:
			active = 1
		}

		rows = append(rows, domain.Row{
			domain.ColumnFacilityID: fmt.Sprintf("%d", 1000+i),
			domain.ColumnLatitude:   round(lat, 6),
			domain.ColumnLongitude:  round(lon, 6),
			domain.ColumnElevation:  round(math.Max(elev, 0), 1),
			domain.ColumnActiveFlag: active,
		})
	}
	return rows
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(ds domain.Dataset, rows []domain.Row) {
	var nullFlags int
	for _, row := range rows {
		if row[domain.ColumnActiveFlag] == nil {
			nullFlags++
		}
	}
	b := ds.Bounds()
	counts := domain.FlagCounts(ds)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", ds.Len())
	fmt.Printf("Elevation: min=%g max=%g\n", b.Min, b.Max)
	fmt.Printf("Active flag: 1=%d, 0=%d (of which null in source: %d)\n", counts[1], counts[0], nullFlags)

	var over300 int
	for _, f := range ds.Records {
		if f.ElevationFt > 300 {
			over300++
		}
	}
	fmt.Printf("Elevation > 300 ft: %d\n", over300)
}

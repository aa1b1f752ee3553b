// Package fixture loads facility rows from a JSON file laid out like the
// warehouse table. It backs local development and tests.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Loader implements dashboard.Loader over a JSON array of row objects.
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader returns a loader for the file at path. The file is read on
// every Load.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Query identifies the source for cache keys.
func (l *Loader) Query() string { return "fixture:" + l.path }

// Load reads and decodes the file. A missing or unreadable file is a query
// error; malformed JSON is a data-shape error.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrQuery, err)
	}

	f, err := os.Open(l.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: open fixture: %v", domain.ErrQuery, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var rows []domain.Row
	if err := dec.Decode(&rows); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: decode fixture %s: %v", domain.ErrDataShape, l.path, err)
	}

	l.logger.Debug("fixture rows read", "path", l.path, "rows", len(rows))
	return domain.DecodeRows(rows)
}

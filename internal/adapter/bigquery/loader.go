// Package bigquery loads the facility table from Google BigQuery using a
// service-account credential.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"cloud.google.com/go/auth"
	bq "cloud.google.com/go/bigquery"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

var tablePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+){1,2}$`)

// rowIterator is the part of *bq.RowIterator the loader reads from.
type rowIterator interface {
	Next(dst any) error
}

// session is one authenticated client.
type session interface {
	Read(ctx context.Context, sql string) (rowIterator, error)
	Close() error
}

type clientSession struct {
	client *bq.Client
}

func (s clientSession) Read(ctx context.Context, sql string) (rowIterator, error) {
	return s.client.Query(sql).Read(ctx)
}

func (s clientSession) Close() error { return s.client.Close() }

// Loader implements dashboard.Loader against one BigQuery table.
type Loader struct {
	projectID   string
	table       string
	credentials []byte
	logger      *slog.Logger
	dial        func(ctx context.Context, projectID string, credentials []byte) (session, error)
}

// NewLoader validates the credential blob and table identifier. projectID
// may be empty, in which case the credential's project is billed.
func NewLoader(projectID, table string, credentials []byte, logger *slog.Logger) (*Loader, error) {
	creds, err := ParseCredentials(credentials)
	if err != nil {
		return nil, err
	}
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid bigquery table %q", table)
	}
	if projectID == "" {
		projectID = creds.ProjectID
	}
	return &Loader{
		projectID:   projectID,
		table:       table,
		credentials: credentials,
		logger:      logger,
		dial:        dialClient,
	}, nil
}

func dialClient(ctx context.Context, projectID string, credentials []byte) (session, error) {
	client, err := bq.NewClient(ctx, projectID, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, err
	}
	return clientSession{client: client}, nil
}

// Query returns the fixed statement the loader runs.
func (l *Loader) Query() string {
	return fmt.Sprintf("SELECT * FROM `%s`", l.table)
}

// Load authenticates, runs the query and decodes every row. Nothing is
// retried.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	sess, err := l.dial(ctx, l.projectID, l.credentials)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: create bigquery client: %v", domain.ErrAuthentication, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			l.logger.Warn("close bigquery client", "error", cerr)
		}
	}()

	it, err := sess.Read(ctx, l.Query())
	if err != nil {
		return domain.Dataset{}, classify("run query", err)
	}

	var rows []domain.Row
	for {
		var values map[string]bq.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return domain.Dataset{}, classify("read rows", err)
		}
		row := make(domain.Row, len(values))
		for k, v := range values {
			row[k] = v
		}
		rows = append(rows, row)
	}

	l.logger.Debug("bigquery rows read", "table", l.table, "rows", len(rows))
	return domain.DecodeRows(rows)
}

// classify maps a client error onto the render-pass taxonomy. A rejected
// token exchange or an HTTP 401 means the credential itself is bad. Anything
// else, including 403 permission denials on the table, is a query error.
func classify(op string, err error) error {
	if isCredentialError(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrAuthentication, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrQuery, op, err)
}

func isCredentialError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}
	var tokenErr *auth.Error
	if errors.As(err, &tokenErr) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

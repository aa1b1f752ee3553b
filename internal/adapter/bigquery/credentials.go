package bigquery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Credentials is the subset of a Google service-account key the loader
// checks before handing the blob to the client library.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
}

// ParseCredentials validates a service-account JSON blob. An absent or
// malformed blob is an authentication error.
func ParseCredentials(blob []byte) (Credentials, error) {
	if len(strings.TrimSpace(string(blob))) == 0 {
		return Credentials{}, fmt.Errorf("%w: no service account credentials configured", domain.ErrAuthentication)
	}

	var c Credentials
	if err := json.Unmarshal(blob, &c); err != nil {
		return Credentials{}, fmt.Errorf("%w: parse service account json: %v", domain.ErrAuthentication, err)
	}
	if c.Type != "service_account" {
		return Credentials{}, fmt.Errorf("%w: credential type %q, want service_account", domain.ErrAuthentication, c.Type)
	}

	var missing []string
	if c.ClientEmail == "" {
		missing = append(missing, "client_email")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "private_key")
	}
	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: service account missing %s", domain.ErrAuthentication, strings.Join(missing, ", "))
	}
	return c, nil
}

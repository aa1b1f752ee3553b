package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// statusFor maps a render failure to an HTTP status. Warehouse failures are
// upstream problems (502); a table that does not match the schema is ours
// (500).
func statusFor(err error) int {
	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrQuery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	var inErr *inputError
	if errors.As(err, &inErr) {
		return "input"
	}
	return domain.ErrorKind(err)
}

// errorTitle is the heading shown on the error page.
func errorTitle(err error) string {
	switch errorKind(err) {
	case "input":
		return "Invalid filter"
	case "authentication":
		return "Could not authenticate to the data warehouse"
	case "query":
		return "The facility query failed"
	case "data_shape":
		return "The facility table has an unexpected shape"
	default:
		return "The dashboard could not be rendered"
	}
}

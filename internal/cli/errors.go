package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/service"
)

var errBadCredentials = errors.New("incorrect email or password")

// describeAPIError rewrites transport and server errors into the message a
// terminal user should see. Sentinels stay matchable with errors.Is.
func describeAPIError(err error) error {
	var apiErr *api.APIError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w: sign in again with `dealflow login`", err)
	case errors.Is(err, api.ErrUnavailable):
		return fmt.Errorf("%w: is the API running?", err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%s (HTTP %d)", apiErr.Detail(), apiErr.Status)
	}
	return err
}

// noticeFor is the one-line status text for a failed TUI action.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return "You do not have permission to do that."
	case errors.Is(err, api.ErrUnavailable):
		return "Cannot reach the API."
	case errors.Is(err, api.ErrTimeout):
		return "The API did not answer in time."
	}
	return api.Message(err)
}

package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	// everything non-2xx lands in the retry queue; 409 never reaches this
	// mapper because save conflicts carry a decoded payload
	return fmt.Errorf("%w: http %d: %s", ErrTransient, resp.StatusCode(), body)
}

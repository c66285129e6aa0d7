package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// TransportError is a failed call: the network failed or the service
// answered with a non-2xx status.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Underlying error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Underlying)
	}
	if e.Underlying == nil {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Underlying)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// StatusCode returns the HTTP status of a TransportError, or 0
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// detail extracts {"detail"|"error"|"message": ...} from an error body
func detail(resp *resty.Response) error {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		for _, s := range []string{body.Detail, body.Error, body.Message} {
			if s != "" {
				return errors.New(s)
			}
		}
	}
	if s := strings.TrimSpace(string(resp.Body())); s != "" && len(s) <= 200 {
		return errors.New(s)
	}
	return nil
}

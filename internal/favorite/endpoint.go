package favorite

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNotConfigured   = errors.New("favorites webhook not configured")
	ErrInvalidEndpoint = errors.New("invalid favorites webhook url")
)

// Endpoint is the webhook URL with its userinfo removed. The credentials
// survive only as a precomputed Basic authorization header.
type Endpoint struct {
	u             *url.URL
	authorization string
}

// ParseEndpoint accepts http(s)://user:pass@host/path. Errors never echo the
// raw value since it may carry credentials.
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, ErrNotConfigured
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: malformed", ErrInvalidEndpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("%w: scheme must be http or https", ErrInvalidEndpoint)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	var ep Endpoint
	if u.User != nil {
		user := u.User.Username()
		pass, _ := u.User.Password()
		ep.authorization = "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	stripped := *u
	stripped.User = nil
	ep.u = &stripped
	return ep, nil
}

// Configured reports whether the endpoint holds a target URL.
func (e Endpoint) Configured() bool { return e.u != nil }

// String is safe to log.
func (e Endpoint) String() string {
	if e.u == nil {
		return ""
	}
	return e.u.String()
}

// Authorization is the derived header value, or "" when the URL had no userinfo.
func (e Endpoint) Authorization() string { return e.authorization }

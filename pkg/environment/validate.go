package environment

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

// Persisted key names, used in error messages and findings.
const (
	FieldAPIServerURL     = "apiServerUrl"
	FieldAuth0URL         = "auth0.url"
	FieldAuth0Audience    = "auth0.audience"
	FieldAuth0ClientID    = "auth0.clientId"
	FieldAuth0CallbackURL = "auth0.callbackURL"
)

// Validate checks that every value is present and well-formed. All problems
// are reported together; each one is an *apperrors.FieldError.
func (c Config) Validate() error {
	var errs []error

	if err := checkAbsoluteURL(FieldAPIServerURL, c.apiServerURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkDomainPrefix(FieldAuth0URL, c.auth0.url); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.auth0.audience) == "" {
		errs = append(errs, apperrors.NewFieldError(FieldAuth0Audience, apperrors.ErrMissingField))
	}
	if strings.TrimSpace(c.auth0.clientID) == "" {
		errs = append(errs, apperrors.NewFieldError(FieldAuth0ClientID, apperrors.ErrMissingField))
	}
	if err := checkAbsoluteURL(FieldAuth0CallbackURL, c.auth0.callbackURL); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func checkAbsoluteURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperrors.NewFieldError(field, apperrors.ErrMissingField)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.NewFieldError(field, fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err)).WithValue(raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewFieldError(field, apperrors.ErrInvalidURL).WithValue(raw)
	}
	return nil
}

func checkDomainPrefix(field, prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return apperrors.NewFieldError(field, apperrors.ErrMissingField)
	}
	if strings.Contains(prefix, "://") || strings.ContainsAny(prefix, "/ ") {
		return apperrors.NewFieldError(field,
			fmt.Errorf("%w: expected a bare domain prefix", apperrors.ErrInvalidInput)).WithValue(prefix)
	}
	return nil
}

// Finding is an advisory note about a Config that is valid but unlikely to
// be what a production deployment wants.
type Finding struct {
	Field   string
	Message string
}

func (f Finding) String() string {
	return f.Field + ": " + f.Message
}

// Audit reports production settings that still point at a developer
// machine or use plain http. Development configs yield no findings.
func (c Config) Audit() []Finding {
	if !c.production {
		return nil
	}
	var findings []Finding
	for _, u := range []struct {
		field string
		raw   string
	}{
		{FieldAPIServerURL, c.apiServerURL},
		{FieldAuth0CallbackURL, c.auth0.callbackURL},
	} {
		parsed, err := url.Parse(u.raw)
		if err != nil {
			continue
		}
		if isLoopback(parsed.Hostname()) {
			findings = append(findings, Finding{Field: u.field, Message: "points at a loopback host in a production build"})
		}
		if parsed.Scheme == "http" {
			findings = append(findings, Finding{Field: u.field, Message: "uses plain http in a production build"})
		}
	}
	return findings
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

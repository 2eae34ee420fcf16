package validation

import (
	"net/url"
	"strings"

	apperrors "go-wallpaper-browser/internal/errors"
)

// URLValidator checks media URLs before anything is transferred
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator accepts http and https URLs on any host
func NewURLValidator() *URLValidator {
	return NewURLValidatorWithOptions([]string{"http", "https"}, nil)
}

// NewURLValidatorWithOptions restricts schemes and hosts. An allowed host
// also admits its subdomains; an empty host list admits every host.
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   normalized,
	}
}

// ValidateMediaURL returns a validation AppError when mediaURL may not be fetched
func (v *URLValidator) ValidateMediaURL(mediaURL string) error {
	if strings.TrimSpace(mediaURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(mediaURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	host := strings.ToLower(parsedURL.Hostname())
	if host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(host) {
		return apperrors.NewValidationError("URL host not allowed", nil).WithDetails(host)
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

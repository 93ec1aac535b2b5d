package shortener

import (
	"net/url"
	"strings"
)

// MaxURLLength bounds the length of URLs accepted for shortening.
const MaxURLLength = 2048

// ValidateURL checks that raw is an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewError(KindInvalidArgument, "", nil, "url is required")
	}

	if len(raw) > MaxURLLength {
		return NewError(KindInvalidArgument, "", nil, "url is too long")
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return NewError(KindInvalidArgument, raw, err, "invalid url")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return NewError(KindInvalidArgument, raw, nil, "url scheme must be http or https")
	}

	if u.Host == "" {
		return NewError(KindInvalidArgument, raw, nil, "url host is required")
	}

	return nil
}

package shades

import (
	"net/url"
	"strings"
)

// ParseImageURL validates a user-supplied image URL. Only absolute http and
// https URLs with a host are accepted.
func ParseImageURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, NewInvalidInputError("Please enter an image URL", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewInvalidInputError("Invalid image URL", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, NewInvalidInputError("Image URL must use http or https", nil)
	}
	if u.Host == "" {
		return nil, NewInvalidInputError("Invalid image URL", nil)
	}
	return u, nil
}

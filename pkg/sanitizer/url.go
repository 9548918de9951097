package sanitizer

import (
	"net/url"
	"strings"
)

// SanitizeImageRef cleans an image reference. Absolute URLs must be http(s);
// anything else is treated as a site-relative path.
func SanitizeImageRef(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return sanitizeAbsoluteURL(s)
	}
	if strings.Contains(s, "://") || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") {
		return ""
	}

	s = strings.TrimPrefix(s, "./")
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}

func sanitizeAbsoluteURL(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			continue
		}
		for _, val := range v {
			if val = strings.TrimSpace(val); val != "" {
				qClean.Add(k, val)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}

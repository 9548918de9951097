package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/seancfoley/ipaddress-go/ipaddr"
)

// UnknownCaller buckets every request that carries no usable forwarded address.
const UnknownCaller = "unknown"

const CallerIDKey contextKey = "caller_id"

var forwardedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// CallerIdentity resolves the best-effort caller identity and stores it on the
// request context. The value only buckets throttling counters; it is
// client-controlled and must never be used for authorization.
func CallerIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), CallerIDKey, CallerFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCallerID returns the identity stored by CallerIdentity, resolving it from
// the request headers when the middleware did not run.
func GetCallerID(r *http.Request) string {
	if id, ok := r.Context().Value(CallerIDKey).(string); ok && id != "" {
		return id
	}
	return CallerFromRequest(r)
}

// CallerFromRequest returns the first parseable address from the forwarded
// headers in canonical form, or UnknownCaller. The socket address is ignored
// on purpose: behind the hosting proxy it is the same for every client.
func CallerFromRequest(r *http.Request) string {
	for _, name := range forwardedHeaders {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		for _, part := range strings.Split(value, ",") {
			if addr := parseForwardedAddress(strings.TrimSpace(part)); addr != "" {
				return addr
			}
		}
	}
	return UnknownCaller
}

func parseForwardedAddress(s string) string {
	if s == "" {
		return ""
	}

	addr, err := ipaddr.NewIPAddressString(s).ToAddress()
	if err != nil || addr == nil {
		// host:port and [v6]:port forms
		addr = ipaddr.NewHostName(s).AsAddress()
		if addr == nil {
			return ""
		}
	}

	if addr.IsIPv6() {
		if v6 := addr.ToIPv6(); v6.IsIPv4Mapped() {
			if v4, err := v6.GetEmbeddedIPv4Address(); err == nil && v4 != nil {
				return v4.ToCanonicalString()
			}
		}
	}
	return addr.ToCanonicalString()
}

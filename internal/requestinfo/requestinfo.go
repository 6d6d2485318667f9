//
//  internal/requestinfo/requestinfo.go
//
//  Per-request metadata: client IP and parsed user agent.  The struct is
//  inert, so it is safe to log.
//
//  The IP recorded with each question comes from ClientIP, which trusts
//  the left-most X-Forwarded-For entry.  Reing runs behind one reverse
//  proxy that overwrites that header.
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/ua"
)

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	IP string
	UA ua.Info
}

type ctxKey struct{}

// Enrich attaches *RequestInfo and forwards.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			IP: ClientIP(r),
			UA: ua.Parse(r.UserAgent()),
		}

		zap.S().Debugw("request info",
			"ip", info.IP,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
	})
}

// FromContext returns the value stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// For returns the request's info, computing it if Enrich was skipped.
func For(r *http.Request) *RequestInfo {
	if v := FromContext(r.Context()); v != nil {
		return v
	}
	return &RequestInfo{IP: ClientIP(r), UA: ua.Parse(r.UserAgent())}
}

// ClientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip.String()
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

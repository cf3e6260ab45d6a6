package web

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/core"
)

// WithRequestMetadata attaches the requesting client to ctx for comparison
// logging. Requests under /api/ are tagged as API calls.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	source := core.SourceWeb
	if strings.HasPrefix(r.URL.Path, "/api/") {
		source = core.SourceAPI
	}
	return core.WithClient(ctx, core.Client{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Source:    source,
	})
}

// clientIP strips the port from RemoteAddr, which TrustedRealIP may already
// have replaced with a bare proxy-reported address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

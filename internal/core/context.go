package core

import "context"

type clientKey struct{}

// Client sources.
const (
	SourceWeb = "web"
	SourceAPI = "api"
	SourceCLI = "cli"
)

// Client describes who asked for a comparison. It is only logged.
type Client struct {
	IP        string
	UserAgent string
	Source    string
}

// WithClient attaches c to ctx for comparison logging.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the Client attached by WithClient.
func ClientFromContext(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey{}).(Client)
	return c, ok
}

// logArgs returns the non-empty fields as slog key/value pairs.
func (c Client) logArgs() []any {
	var args []any
	if c.Source != "" {
		args = append(args, "source", c.Source)
	}
	if c.IP != "" {
		args = append(args, "client_ip", c.IP)
	}
	if c.UserAgent != "" {
		args = append(args, "user_agent", c.UserAgent)
	}
	return args
}

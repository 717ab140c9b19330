package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
	"log/slog"

	coreconfig "github.com/dvaldes/warouter/core/config"
	"github.com/dvaldes/warouter/core/logger"
)

const connectTimeout = 5 * time.Second

// Client wraps valkey-go with key prefixing for the session store.
type Client struct {
	inner     valkeylib.Client
	keyPrefix string
}

// NewClient connects to Valkey and verifies the connection with a ping.
// The caller owns the client and must call Close when done.
func NewClient(cfg coreconfig.ValkeyConfig) (*Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		logger.SES.Error("valkey ping failed",
			slog.String("event", "valkey.connect"),
			slog.String("host", cfg.Address),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	logger.SES.Info("valkey connected",
		slog.String("event", "valkey.connect"),
		slog.String("host", cfg.Address),
		slog.Int("db", cfg.DB),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	return &Client{inner: inner, keyPrefix: prefix}, nil
}

// Inner returns the underlying valkey-go client.
func (c *Client) Inner() valkeylib.Client {
	return c.inner
}

// Close closes the connection.
func (c *Client) Close() {
	if c.inner != nil {
		c.inner.Close()
	}
}

// Key builds a prefixed key, e.g. Key("session", "519...") -> "warouter:session:519...".
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	return c.keyPrefix + strings.Join(parts, ":")
}

// Ping checks connectivity under the given context.
func (c *Client) Ping(ctx context.Context) error {
	return c.inner.Do(ctx, c.inner.B().Ping().Build()).Error()
}

// IsNil reports whether err is a Valkey NIL response.
func IsNil(err error) bool {
	return valkeylib.IsValkeyNil(err)
}

package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net"
	"time"

	r "github.com/redis/go-redis/v9"
)

// AddressFamily hints how the client should resolve the Redis hostname.
type AddressFamily int

const (
	// FamilyDefault leaves name resolution to the dialer.
	FamilyDefault AddressFamily = iota

	// FamilyDualStack attempts both IPv6 and IPv4 addresses.
	FamilyDualStack
)

func (f AddressFamily) String() string {
	if f == FamilyDualStack {
		return "dual-stack"
	}
	return "default"
}

// TLSOptions enables TLS on the connection. ServerName is used for
// certificate verification.
type TLSOptions struct {
	ServerName string
}

// ConnectionOptions is the resolved connection configuration for the queue
// client. Each Resolve call produces a fresh value; ownership passes to the
// caller.
type ConnectionOptions struct {
	Host     string
	Port     int
	Username string
	Password string

	// TLS is nil for plaintext connections.
	TLS *TLSOptions

	Family AddressFamily

	// RetryCap bounds per-command retries. nil means unlimited: the client
	// keeps retrying through connection errors instead of surfacing them.
	RetryCap *int
}

func (o *ConnectionOptions) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// dualStackFallbackDelay matches the net package's default Happy Eyeballs
// delay before the second address family is attempted.
const dualStackFallbackDelay = 300 * time.Millisecond

// RedisOptions converts the connection options into go-redis client options.
func (o *ConnectionOptions) RedisOptions() *r.Options {
	options := &r.Options{
		Addr:     o.Addr(),
		Username: o.Username,
		Password: o.Password,
	}

	switch {
	case o.RetryCap == nil:
		// go-redis has no unlimited sentinel (-1 disables retries entirely),
		// so an unset cap maps to the largest cap it accepts.
		options.MaxRetries = math.MaxInt32
	case *o.RetryCap == 0:
		// go-redis reads MaxRetries 0 as "use the default of 3"; -1 is its
		// spelling for no retries at all.
		options.MaxRetries = -1
	default:
		options.MaxRetries = *o.RetryCap
	}

	options.TLSConfig = o.TLSClientConfig()

	if o.Family == FamilyDualStack {
		dialer := &net.Dialer{
			Timeout:       5 * time.Second,
			FallbackDelay: dualStackFallbackDelay,
		}
		options.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", addr)
		}
	}

	return options
}

// TLSClientConfig returns the tls.Config for the connection, or nil when the
// connection is plaintext.
func (o *ConnectionOptions) TLSClientConfig() *tls.Config {
	if o.TLS == nil {
		return nil
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: o.TLS.ServerName,
	}
}

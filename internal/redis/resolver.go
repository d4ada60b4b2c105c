package redis

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Configuration keys read through the ConnectionSource.
const (
	EnvDeploymentMode = "APP_ENV"
	KeyPublicURL      = "REDIS_URL_PUBLIC"
	KeyPrivateURL     = "REDIS_URL_PRIVATE"
)

const modeDevelopment = "development"

// ConnectionSource supplies configuration values by key. The second return
// value reports whether the key is set at all; an empty string that is set
// is distinct from an unset key.
type ConnectionSource interface {
	Lookup(key string) (string, bool)
}

// Logger is the minimal structured logging surface this package needs.
// Both *zap.Logger and *logging.Logger satisfy it.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// DeploymentMode selects which connection profile the resolver uses.
type DeploymentMode int

const (
	// ModeRemote connects to the private endpoint over the internal network.
	ModeRemote DeploymentMode = iota

	// ModeLocal connects to the public endpoint used during development.
	ModeLocal
)

func (m DeploymentMode) String() string {
	if m == ModeLocal {
		return "local"
	}
	return "remote"
}

func (m DeploymentMode) urlKey() string {
	if m == ModeLocal {
		return KeyPublicURL
	}
	return KeyPrivateURL
}

// DeploymentModeFrom reads the deployment mode from the source. Only the
// literal "development" selects ModeLocal; any other value, including an
// unset key, is ModeRemote.
func DeploymentModeFrom(source ConnectionSource) DeploymentMode {
	if value, ok := source.Lookup(EnvDeploymentMode); ok && value == modeDevelopment {
		return ModeLocal
	}
	return ModeRemote
}

// MissingConfigError indicates the URL key for the selected profile is unset.
// There is no fallback; callers should abort startup.
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required configuration %q", e.Key)
}

// InvalidURLError indicates the configured value could not be parsed as a
// URL. URL carries a credential-redacted form of the offending value.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid redis url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// ResolveConnectionOptions builds the queue client's connection options from
// the profile selected by the deployment mode.
//
// Local mode reads REDIS_URL_PUBLIC and enables TLS iff the URL scheme is
// rediss. Remote mode reads REDIS_URL_PRIVATE, never configures TLS, and
// requests dual-stack name resolution. In both modes the per-command retry
// cap is left unlimited so the client rides out transient connection errors.
//
// The function only reads configuration and allocates a fresh result, so it
// is safe for concurrent use. logger may be nil.
func ResolveConnectionOptions(source ConnectionSource, logger Logger) (*ConnectionOptions, error) {
	mode := DeploymentModeFrom(source)
	key := mode.urlKey()

	raw, ok := source.Lookup(key)
	if !ok {
		return nil, &MissingConfigError{Key: key}
	}

	u, err := url.Parse(raw)
	if err != nil {
		// url.Error.Error() repeats the raw URL, credentials included, so
		// keep only the inner cause.
		reason := err
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			reason = urlErr.Err
		}
		return nil, &InvalidURLError{URL: RedactURL(raw), Err: reason}
	}
	if u.Scheme == "" {
		return nil, &InvalidURLError{URL: RedactURL(raw), Err: errors.New("missing url scheme")}
	}

	options := &ConnectionOptions{
		Host: u.Hostname(),
	}
	if port := u.Port(); port != "" {
		// url.Parse only accepts numeric ports, so the error is unreachable.
		options.Port, _ = strconv.Atoi(port)
	}
	if u.User != nil {
		options.Username = u.User.Username()
		options.Password, _ = u.User.Password()
	}

	switch mode {
	case ModeLocal:
		if u.Scheme == "rediss" {
			options.TLS = &TLSOptions{ServerName: options.Host}
		}
	case ModeRemote:
		options.Family = FamilyDualStack
	}

	if logger != nil {
		fields := []zap.Field{
			zap.String("profile", mode.String()),
			zap.String("host", options.Host),
			zap.Int("port", options.Port),
		}
		if mode == ModeLocal {
			fields = append(fields, zap.Bool("tls", options.TLS != nil))
		}
		logger.Info("resolved redis connection options", fields...)
	}

	return options, nil
}

// RedactURL masks userinfo credentials in a URL string so it can be logged
// or embedded in errors.
func RedactURL(raw string) string {
	schemeIdx := strings.Index(raw, "://")
	if schemeIdx == -1 {
		return raw
	}
	rest := raw[schemeIdx+3:]
	atIdx := strings.LastIndex(rest, "@")
	if atIdx == -1 {
		return raw
	}
	return raw[:schemeIdx+3] + "***:***" + rest[atIdx:]
}

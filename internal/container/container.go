package container

import (
	"fmt"
	"os"
	"strings"

	"github.com/serroba/shorturls/internal/audit"
)

// TokenEnv is read for the audit credential when no token option is set.
const TokenEnv = "LOGGER_TOKEN"

// Options configures both binaries. humacli exposes each field as a flag
// and as a SERVICE_* environment variable.
type Options struct {
	Port            int    `default:"3000"                                         help:"Port to listen on"                                                 short:"p"`
	BaseURL         string `default:""                                             help:"Public base URL of short links, defaults to http://localhost:PORT"`
	CodeLength      int    `default:"6"                                            help:"Length of generated short codes"                                   short:"c"`
	DefaultValidity int    `default:"30"                                           help:"Validity in minutes when a request has none"`
	MaxAttempts     int    `default:"10"                                           help:"Generated codes tried before giving up"`
	RedisAddr       string `default:""                                             help:"Redis address for the audit stream, empty keeps events in process" short:"r"`
	ConsumerGroup   string `default:"audit-collector"                              help:"Redis stream consumer group of audit consumers"`
	LogFormat       string `default:"console"                                      help:"Log format: console or json"`
	AuditURL        string `default:"http://20.244.56.144/evaluation-service/logs" help:"Audit collector endpoint"`
	AuditToken      string `default:""                                             help:"Bearer token for the audit collector, empty disables auditing"`
	AuditStack      string `default:"backend"                                      help:"Stack name attached to audit events"`
	AuditBuffer     int    `default:"256"                                          help:"Audit events buffered before dropping"`
}

// ShortLinkBase returns the base URL short links are built on.
func (o *Options) ShortLinkBase() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// AuditCredential returns the audit token, falling back to LOGGER_TOKEN.
func (o *Options) AuditCredential() string {
	if o.AuditToken != "" {
		return o.AuditToken
	}

	return os.Getenv(TokenEnv)
}

// AuditEndpoint returns the collector URL.
func (o *Options) AuditEndpoint() string {
	if o.AuditURL != "" {
		return o.AuditURL
	}

	return audit.DefaultCollectorURL
}

// InProcessBroker reports whether audit events stay inside the server process.
func (o *Options) InProcessBroker() bool {
	return o.RedisAddr == ""
}

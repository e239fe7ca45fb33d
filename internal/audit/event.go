package audit

// Topic is the message topic audit events are published on.
const Topic = "audit.log"

// Level is the severity of an audit event, as understood by the collector.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Packages name the part of the service that emitted an event.
const (
	PackageRoute = "route"
	PackageDB    = "db"
)

// Event is one audit log entry, in the collector's wire format.
type Event struct {
	Stack   string `json:"stack"`
	Level   Level  `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

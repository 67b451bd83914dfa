// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/eventbus/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//		logger.WithOutput(os.Stderr),
//	)
//
// Discard returns a logger that drops every record. The event dispatcher uses it
// when no logger is configured.
//
// # Attributes
//
// Attribute helpers return an empty slog.Attr for nil inputs, so they can be
// passed unconditionally:
//
//	log.Error("listener panicked",
//		logger.Event(name),
//		logger.ListenerID(id),
//		logger.Panic(recovered),
//		logger.Error(err), // dropped when err is nil
//	)
//
// Helpers taking a fmt.Stringer (ListenerID, Priority, Mode, DispatcherID) accept
// the event package's value types directly without this package importing it.
package logger

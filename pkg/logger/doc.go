// Package logger builds the process *slog.Logger and holds the attribute
// helpers shared by the queue worker, the notification processor and the
// operator API.
//
// New writes JSON at INFO to stdout by default. WithEnvironment switches to
// the preset for development (text, debug), staging or production (json,
// info) and tags records with "service" and "env". Config lets LOG_LEVEL and
// LOG_FORMAT override the preset.
//
//	log := logger.New(
//		logger.WithEnvironment(app.Env, app.Name),
//		logger.WithContextExtractors(requestid.LoggerExtractor(), queue.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Context extractors run on every record, so values like the request ID or
// the running task appear without being passed to each log call.
//
// Attribute helpers (TaskID, Queue, Attempt, Template, DeadLetterID, Error...)
// keep keys consistent. Error and Errors return an empty attribute for nil, so
//
//	log.Info("delivery finished", logger.Error(err))
//
// needs no nil check.
package logger

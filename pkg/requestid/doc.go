// Package requestid tags every operator API request with a correlation ID.
//
// Middleware reuses the ID an upstream service sent in X-Request-ID (or
// X-Correlation-ID) when it is 1 to 128 characters of letters, digits, '-' and
// '_'. Anything else is replaced by a new UUID. The chosen ID is stored in the
// request context and echoed in the X-Request-ID response header.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
// LoggerExtractor plugs into logger.WithContextExtractors so every record
// logged with the request context carries "request_id":
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid

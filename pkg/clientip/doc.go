// Package clientip resolves the caller's IP address behind proxies.
//
// GetIP checks CF-Connecting-IP, X-Forwarded-For (first valid entry) and
// X-Real-IP before falling back to RemoteAddr. Middleware stores the result in
// the request context, where FromContext, rate limiting keys and the
// logger extractor pick it up:
//
//	r.Use(clientip.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//
// Headers are trusted as sent; deploy behind a proxy that overwrites them.
package clientip

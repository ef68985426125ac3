// Package handler provides type-safe HTTP request handling for JSON APIs.
//
// A HandlerFunc receives a Context and a request struct filled by binders,
// and returns a Response. Wrap turns it into an http.HandlerFunc:
//
//	type ListRequest struct {
//		Queue string `query:"queue"`
//		Limit int    `query:"limit"`
//	}
//
//	func list(ctx handler.Context, req ListRequest) handler.Response {
//		entries, err := deadLetters.List(ctx, req.Queue, req.Limit)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(entries)
//	}
//
//	r.Get("/dead-letters", handler.Wrap(list,
//		handler.WithBinders[handler.Context, ListRequest](binder.Query()),
//		handler.WithErrorHandler[handler.Context, ListRequest](errorHandler),
//	))
//
// # Responses
//
//	handler.JSON(data)                              // 200 with {"data": ...}
//	handler.JSON(data, handler.WithJSONStatus(202)) // custom status
//	handler.JSONError(err)                          // {"error": {...}} with a status derived from err
//	handler.Empty()                                 // 204 without body
//
// # Errors
//
// JSONError and the error handler derive the status code from the error:
// HTTPError carries its own code and key, validator.ValidationErrors map to
// 422 with per-field details, anything else is a 500. NewErrorHandler additionally
// maps binder failures to 400 or 415 and logs every error with the request ID.
package handler

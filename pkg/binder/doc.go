// Package binder fills request structs from HTTP requests.
//
// Each binder handles one source and reads only its own struct tags:
//
//   - JSON decodes the body strictly (unknown fields and trailing data are
//     rejected, bodies are capped at DefaultMaxJSONSize);
//   - Query reads `query` tags from the URL query string;
//   - Path reads `path` tags through a router-specific extractor such as chi.URLParam.
//
// Query and path values support basic kinds, slices, pointers, time.Duration and
// any encoding.TextUnmarshaler (uuid.UUID among them).
//
//	type ListRequest struct {
//		Queue string `query:"queue"`
//		Limit int    `query:"limit"`
//	}
//
// A binder that does not apply to a request (JSON on a GET) returns
// ErrBinderNotApplicable and handler.Wrap skips it.
package binder

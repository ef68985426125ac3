// Package operator exposes the notification queue over HTTP for operators
// and upstream services.
//
// Router mounts:
//
//	GET    /health/live                liveness probe
//	GET    /health/ready               readiness probe (Redis, MongoDB)
//	POST   /notifications              enqueue an envelope, 202 {"data":{"task_id":...}}
//	GET    /queues                     live task and dead letter counts per queue
//	GET    /dead-letters               list dead letters, ?queue= filters by origin queue
//	GET    /dead-letters/{id}          inspect one entry
//	POST   /dead-letters/{id}/replay   re-enqueue onto the origin queue with a fresh budget
//	DELETE /dead-letters/{id}          drop an entry
//
// POST /notifications accepts the envelope as the JSON body. The query
// parameters queue, delay (a Go duration) and max_attempts override queue
// defaults for that task. When RouterOptions.Limiter is set, the endpoint is
// rate limited per client IP.
//
// Errors use the handler package JSON shape. Envelope problems answer 422
// invalid_notification, unknown or terminal queues answer 400 and missing
// dead letters answer 404.
package operator

// Package notification turns queued envelopes into user-facing messages.
//
// An Envelope carries a channel kind, a Template and the matching typed
// Payload. Producers validate envelopes before they reach the queue; the
// Processor is registered on a queue.Worker under TaskName and routes each
// claimed envelope through the Dispatcher to a Notifier method.
//
//	producer, _ := notification.NewProducer(enqueuer)
//	_, err := producer.Send(ctx, notification.SignupPayload{To: "a@x.com", Code: "123456", UUID: id})
//
//	mailer, _ := notification.NewMailer(sender, notification.WithBaseURL("https://app.example.com"))
//	dispatcher, _ := notification.NewDispatcher(mailer)
//	processor, _ := notification.NewProcessor(dispatcher)
//	_ = worker.RegisterHandler(processor)
//
// # Failures
//
// Malformed envelopes, unknown templates, invalid payloads and recipients the
// provider rejects are permanent: the Processor marks them non-retryable so
// the worker moves them to the dead letter queue on the first attempt. Any
// other Notifier error is returned as is and the queue retry policy applies.
// Envelopes of another kind are acknowledged without delivery.
package notification

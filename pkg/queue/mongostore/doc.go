// Package mongostore archives dead letters in MongoDB.
//
// Redis keeps the live queue fast; dead letters are long-lived records an
// operator inspects and replays, so they can be kept in a document store
// instead. Store implements queue.DeadLetterRepository and plugs into the
// worker with queue.WithDeadLetterRepository:
//
//	db, _ := mongo.Open(ctx, cfg)
//	archive := mongostore.New(db)
//	_ = archive.Migrate(ctx)
//
//	worker, _ := queue.NewWorker(redisStore, registry,
//		queue.WithDeadLetterRepository(archive))
package mongostore

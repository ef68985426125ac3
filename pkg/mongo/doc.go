// Package mongo manages the optional MongoDB connection used to archive
// dead-lettered tasks.
//
// Configuration comes from MONGODB_* environment variables. Connect retries the
// initial ping RetryAttempts times. Open returns the database named by
// MONGODB_DATABASE, which is what pkg/queue/mongostore expects.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	archive := mongostore.New(db)
//	if err := archive.Migrate(ctx); err != nil {
//		return err
//	}
//
// # Error Handling
//
// Failures are joined with ErrConnect or ErrUnhealthy. ErrMissingDatabase is
// returned alone.
package mongo

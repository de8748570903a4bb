// Package mongo provides MongoDB connection management for the notification
// store: environment-driven configuration, retry on initial connect, sane
// pooling defaults and a health check hook for the HTTP health endpoint.
//
// # Usage
//
//	cfg := mongo.Config{ConnectionURL: "mongodb://localhost:27017"}
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect(context.Background())
//
//	health := mongo.Healthcheck(client)
//
// Configuration is entirely environment-driven so the same binary runs
// unchanged across development, staging and production. Connection failures
// are wrapped in package sentinel errors compatible with errors.Is.
package mongo

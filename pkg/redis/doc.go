// Package redis connects the SDK to a Redis server, primarily as the
// backend of the sticky-bucketing profile store.
//
// The package wraps the go-redis client with a retrying Connect and a
// health-check helper for liveness probes. Configuration is carried by the
// Config struct, whose fields can be populated from the environment via
// pkg/config.
//
// # Usage
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	profiles := profile.NewRedisStore(client)
//
// Register a health check in the host's observability stack:
//
//	check := redis.Healthcheck(client)
//	if err := check(ctx); err != nil {
//	    // redis is not healthy
//	}
package redis

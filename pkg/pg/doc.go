// Package pg connects the SDK to PostgreSQL through the pgx/v5 driver,
// primarily as the backend of the sticky-bucketing profile store.
//
// The package exposes a Config populated from the environment, a retrying
// Connect that returns a *pgxpool.Pool, and a health-check helper. Schema
// management stays with the host; profile.Schema carries the one table the
// store needs.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	profiles := profile.NewPostgresStore(pool)
package pg

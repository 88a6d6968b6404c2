// Package pg opens PostgreSQL connection pools with the pgx/v5 driver.
//
// Config is populated from the environment (DATABASE_URL plus PG_* pool tunables).
// Connect builds a *pgxpool.Pool from it and retries until the database answers a
// ping, so the processor can start before the database has finished booting.
// Healthcheck adapts a pool into a readiness probe for the ops server.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
package pg

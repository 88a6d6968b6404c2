// Package redis connects to Redis and provides the Redis-list implementation of
// queue.Store used by the queue workers.
//
// The package wraps github.com/redis/go-redis/v9 and adds:
//
//   - Connect, which retries PING according to Config before handing out a client.
//   - ListQueue, a queue.Store over Redis lists: Push is LPUSH, Pop is BRPOP, so
//     every list behaves as a FIFO queue. An expired BRPOP is reported as
//     queue.ErrNoMessage.
//   - Connector, which gives every worker its own single-connection client.
//   - Healthcheck, a readiness probe for the ops server.
//
// Configuration fields can be populated from the environment with pkg/config:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg) // REDIS_URL defaults to redis://127.0.0.1:6379/0
//
//	registry.StartAll(ctx, redis.NewConnector(cfg))
//
// Producing a message:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	q := redis.NewListQueue(client)
//	defer q.Close()
//	err = q.Push(ctx, "loved:queues:user_update", `{"user_id":2}`)
package redis

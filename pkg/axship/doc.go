// Package axship provides an embeddable batching client for the Axiom
// ingest API.
//
// Events are serialized when they are injested, kept in an in-memory FIFO
// and shipped in one request per flush as a JSON array, NDJSON or CSV,
// gzip-compressed by default.
//
// # Basic Usage
//
// To ship JSON events from your application:
//
//	pool, err := axship.NewJSONPool[MyEvent](axship.JSONConfig{
//	    Config: axship.Config{
//	        Token:     os.Getenv("AXIOM_TOKEN"),
//	        Dataset:   "my-dataset",
//	        AutoFlush: 5 * time.Second,
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = pool.Injest(MyEvent{Name: "started"})
//
//	// ... on exit ...
//
//	if err := pool.Shutdown(context.Background()); err != nil {
//	    log.Printf("final flush: %v", err)
//	}
//
// CSV pools take a header and rows that implement [CSVEncodable], or raw
// pre-formatted lines via [CSVPool.InjestLines].
//
// # Delivery
//
// Delivery is at-most-once. A flush drains the queue before sending; if the
// send fails the drained events are lost and the error is returned to the
// caller of Flush. Failures of background flushes are reported through
// [EventHandler.OnFlushError] and the logger. Nothing is retried and the
// queue is unbounded.
//
// # Timestamps
//
// Unless UseRemoteTime is set, every event is stamped with the current UTC
// time in its _time field (JSON) or an extra _time column (CSV) at the moment
// it is injested.
//
// # Errors
//
// Rejections from the ingest service are typed: [ErrAuth] for HTTP 403,
// [*InvalidPayloadError] for HTTP 400 and [*APIError] for anything else.
// Configuration problems wrap [ErrInvalidConfig].
//
// # Dependency Injection
//
// For testing, you can inject custom implementations of external dependencies:
//
//	pool, err := axship.NewJSONPool[MyEvent](cfg,
//	    axship.WithHTTPClient(mockClient),
//	    axship.WithLogger(customLogger),
//	)
package axship

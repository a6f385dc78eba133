// Package gearo is a client library for the Gearman job-queue protocol.
//
// Gearo implements the binary wire protocol and the worker-side
// execution loop: producers submit jobs to a job server, workers
// register the functions they can perform and pull jobs off the queue,
// and the server brokers between them. Gearo runs fully in Go,
// speaks to any Gearman-compatible server, and integrates cleanly into
// existing codebases.
//
// # Core Concepts
//
// The programming model is intentionally small and idiomatic:
//
//  1. Conn
//  2. Worker
//  3. Client
//  4. Reply
//  5. Observer
//
// # Conn
//
// Conn is the protocol engine. It frames and parses binary packets,
// correlates sent requests with their asynchronous responses, and fans
// out server pushes (wake-ups, work progress) to unsolicited
// subscribers. Correlation is positional — the wire format carries no
// request IDs, so replies resolve pending requests in the exact order
// the requests were sent — and any number of requests may be pipelined.
//
// A Conn is driven from outside: the transport owner pushes received
// bytes into OnDataReceived and signals closure with OnConnectionLost.
// Dial and WrapNetConn provide a ready-made TCP transport with a read
// pump for the common case.
//
// # Worker
//
// A Worker registers job functions and runs the grab/sleep/wake cycle:
// request a job, and when the server has none, declare sleep and wait
// for the server's wake-up push instead of polling. Job function errors
// are absorbed and reported to the server as WORK_EXCEPTION plus
// WORK_FAIL; they never break the acquisition loop.
//
//	c, err := gearo.Dial("tcp", "localhost:4730")
//	if err != nil {
//		log.Fatal(err)
//	}
//	w := gearo.NewWorker(c)
//	w.RegisterFunction("reverse", reverse)
//	for {
//		if err := w.DoJob(ctx); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Client
//
// A Client submits jobs. Foreground submissions wait for the result and
// collect incremental WORK_DATA / WORK_WARNING chunks on a JobHandle;
// background submissions return the server handle for later Status
// polling.
//
//	cl := gearo.NewClient(c)
//	result, _, err := cl.Submit(ctx, "reverse", []byte("hello"))
//
// # Reply
//
// Asynchronous operations return a Reply: a future resolved exactly
// once with either the response frame or an error. Wait accepts a
// context, so callers control their own timeouts; the library imposes
// none.
//
// # Observer
//
// Observers receive frame-level and job-level callbacks for logging and
// metrics. ZapObserver logs through go.uber.org/zap, BasicMetrics
// keeps atomic counters, and CompositeObserver combines several.
//
// # Scope
//
// Gearo is a client library only: it contains no server, no
// persistence, and no load balancing across multiple job servers.
// Reconnection policy belongs to the application; once a connection is
// lost every pending request is rejected and a fresh Conn must be
// constructed.
//
// For runnable programs, see the /examples directory.
package gearo

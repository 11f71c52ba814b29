// Package host defines the embedding boundary (§6): the HostHooks
// interface an embedder implements, and the Job queues the core posts to
// between safepoints rather than running itself. The core never chooses
// when a promise job, timer, or generic job actually runs — it only
// enqueues Job values and lets the embedder's event loop drain them.
package host

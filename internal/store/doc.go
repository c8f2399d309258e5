// Package store is the authoritative node collection as seen by the rest
// of the application. It wraps a durable NodeRepo with two things the
// repository alone does not give: a single FIFO writer, so mutations are
// never reordered, and a subscription that pushes the full collection
// after every successful mutation.
package store

// Package notify provides a small synchronous publish/subscribe bus. Each bus
// maps an event kind to an ordered list of subscribers; publishing invokes
// them on the caller's goroutine in subscription order. Subscriptions are
// removed through the opaque Handle returned by Subscribe.
package notify

// Package session owns the runtime state of every configured animation.
//
// A Session builds one seqindex.Index per animation, attaches the controls
// declared for it, binds synced parameters and streams archives into the
// indices. All access to that state goes through the Session, which
// serializes it with a single mutex: archive workers, socket handlers and the
// terminal view all run on their own goroutines.
//
// Views observe a Session through Subscribe. Subscribers are called with the
// session locked and must not call back into it; they forward events to
// their own goroutine or connection instead.
package session

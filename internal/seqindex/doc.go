// Package seqindex maps the current values of an ordered set of parameters to
// the frame of an image sweep that was rendered for them.
//
// An Index owns its parameters in registration order and a frame store keyed
// by composite keys such as `a=03b=07`. Frames are inserted one at a time, in
// any order, under the key parsed from their source filename; lookups build
// the key from the live parameter values. Once every expected frame has been
// inserted the index is complete and fires its loading-finished event exactly
// once.
//
// An Index is not safe for concurrent use. Collaborators that decode archives
// or serve clients on several goroutines must serialize their calls.
package seqindex

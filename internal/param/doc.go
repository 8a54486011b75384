// Package param models a single scrubbable dimension of an image sweep: a
// closed numeric range walked with a fixed step. A Parameter validates that
// its maximum is reachable from its minimum, keeps a current value inside the
// range, derives the zero-padded frame index for that value and notifies
// observers when the value changes.
package param

package syncbridge

import (
	"errors"
	"fmt"

	"github.com/vk/sweepview/internal/notify"
	"github.com/vk/sweepview/internal/param"
	"github.com/vk/sweepview/internal/seqindex"
)

var (
	// ErrNameMismatch is returned when a bound name is missing from its index.
	ErrNameMismatch = errors.New("parameter not found in animation")
	// ErrArityMismatch is returned when the name lists differ in length.
	ErrArityMismatch = errors.New("parameter name lists differ in length")
)

// Binding links one parameter of each side.
type Binding struct {
	Left  *param.Parameter
	Right *param.Parameter

	leftHandle  notify.Handle
	rightHandle notify.Handle
	closed      bool
}

// Close stops propagation in both directions.
func (b *Binding) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.Left.Unsubscribe(b.leftHandle)
	b.Right.Unsubscribe(b.rightHandle)
}

// Option customizes a Bridge.
type Option func(*Bridge)

// WithErrorHandler receives errors raised while copying a value, for example
// when the partner's range does not include it.
func WithErrorHandler(fn func(error)) Option {
	return func(b *Bridge) {
		b.onError = fn
	}
}

// WithLoadFollower makes the first frame of either side start the load of
// the other side, unless it already started. fn performs the start.
func WithLoadFollower(fn func(ix *seqindex.Index)) Option {
	return func(b *Bridge) {
		b.follow = fn
	}
}

// Bridge binds parameters of two indices pairwise.
type Bridge struct {
	left     *seqindex.Index
	right    *seqindex.Index
	bindings []*Binding
	onError  func(error)
	follow   func(*seqindex.Index)
	handles  [2]notify.Handle
}

// Bind pairs leftNames[i] of left with rightNames[i] of right. Nothing is
// subscribed unless every name resolves.
func Bind(left *seqindex.Index, leftNames []string, right *seqindex.Index, rightNames []string, opts ...Option) (*Bridge, error) {
	if len(leftNames) != len(rightNames) {
		return nil, fmt.Errorf("%w: %d names for %q, %d for %q", ErrArityMismatch, len(leftNames), left.Name(), len(rightNames), right.Name())
	}

	br := &Bridge{left: left, right: right, onError: func(error) {}}
	for _, opt := range opts {
		opt(br)
	}

	type pair struct{ l, r *param.Parameter }
	pairs := make([]pair, 0, len(leftNames))
	for i := range leftNames {
		l, ok := left.Parameter(leftNames[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrNameMismatch, leftNames[i], left.Name())
		}
		r, ok := right.Parameter(rightNames[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrNameMismatch, rightNames[i], right.Name())
		}
		pairs = append(pairs, pair{l, r})
	}

	for _, p := range pairs {
		br.bindings = append(br.bindings, br.bind(p.l, p.r))
	}
	if br.follow != nil {
		br.handles[0] = left.OnFrameLoaded(br.followLoad(right))
		br.handles[1] = right.OnFrameLoaded(br.followLoad(left))
	}
	return br, nil
}

func (br *Bridge) bind(l, r *param.Parameter) *Binding {
	b := &Binding{Left: l, Right: r}
	b.leftHandle = l.OnChange(br.copyTo(r))
	b.rightHandle = r.OnChange(br.copyTo(l))
	return b
}

func (br *Bridge) copyTo(dst *param.Parameter) func(float64) {
	return func(v float64) {
		if err := dst.SetCurrent(v); err != nil {
			br.onError(fmt.Errorf("sync %q: %w", dst.Name(), err))
		}
	}
}

func (br *Bridge) followLoad(other *seqindex.Index) func(seqindex.Progress) {
	return func(seqindex.Progress) {
		if !other.Started() {
			br.follow(other)
		}
	}
}

// Bindings returns the parameter pairs in declaration order.
func (br *Bridge) Bindings() []*Binding {
	return br.bindings
}

// Close removes every binding.
func (br *Bridge) Close() {
	for _, b := range br.bindings {
		b.Close()
	}
	if br.follow != nil {
		br.left.Unsubscribe(br.handles[0])
		br.right.Unsubscribe(br.handles[1])
	}
}

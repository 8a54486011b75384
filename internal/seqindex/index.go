package seqindex

import (
	"fmt"
	"strings"

	"github.com/vk/sweepview/internal/framekey"
	"github.com/vk/sweepview/internal/notify"
	"github.com/vk/sweepview/internal/param"
)

const (
	frameLoaded     notify.Kind = "frame-loaded"
	loadingFinished notify.Kind = "loading-finished"
)

// State is the load state of an Index.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress is the payload of frame-loaded and loading-finished events.
type Progress struct {
	Loaded int
	Total  int
	// Key is the composite key of the frame that was just inserted.
	Key string
}

// Control is implemented by anything that drives one or more parameters of an
// Index, such as a slider or a pointer locator.
type Control interface {
	// Init is called once, before the control's parameters are registered.
	Init(ix *Index) error
	// Parameters returns the parameters driven by the control, in key order.
	Parameters() []*param.Parameter
}

// Index is the frame store of one animation.
type Index struct {
	name     string
	params   map[string]*param.Parameter
	order    []string
	frames   map[string]any
	loaded   int
	started  bool
	finished bool
	events   *notify.Bus[Progress]
}

// New creates an empty index.
func New(name string) *Index {
	return &Index{
		name:   name,
		params: make(map[string]*param.Parameter),
		frames: make(map[string]any),
		events: notify.New[Progress](),
	}
}

// Name returns the animation name the index was created for.
func (ix *Index) Name() string {
	return ix.name
}

// RegisterParameter appends p to the key order.
func (ix *Index) RegisterParameter(p *param.Parameter) error {
	if _, exists := ix.params[p.Name()]; exists {
		return fmt.Errorf("%w: %q in animation %q", ErrDuplicateName, p.Name(), ix.name)
	}
	if ix.started {
		return fmt.Errorf("%w: cannot register %q in animation %q", ErrAlreadyLoading, p.Name(), ix.name)
	}
	ix.params[p.Name()] = p
	ix.order = append(ix.order, p.Name())
	return nil
}

// AddControl initializes c and registers its parameters in order.
func (ix *Index) AddControl(c Control) error {
	if err := c.Init(ix); err != nil {
		return fmt.Errorf("failed to initialize control: %w", err)
	}
	for _, p := range c.Parameters() {
		if err := ix.RegisterParameter(p); err != nil {
			return err
		}
	}
	return nil
}

// Parameter returns the registered parameter with the given name.
func (ix *Index) Parameter(name string) (*param.Parameter, bool) {
	p, ok := ix.params[name]
	return p, ok
}

// Parameters returns the registered parameters in key order.
func (ix *Index) Parameters() []*param.Parameter {
	out := make([]*param.Parameter, 0, len(ix.order))
	for _, name := range ix.order {
		out = append(out, ix.params[name])
	}
	return out
}

// CompositeKey builds the lookup key from the live parameter values.
func (ix *Index) CompositeKey() string {
	var b strings.Builder
	for _, name := range ix.order {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(ix.params[name].DerivedIndex())
	}
	return b.String()
}

// ExpectedTotal returns the number of frames a complete archive holds.
func (ix *Index) ExpectedTotal() int {
	total := 1
	for _, name := range ix.order {
		total *= ix.params[name].ValueCount()
	}
	return total
}

// Loaded returns the number of frames inserted so far.
func (ix *Index) Loaded() int {
	return ix.loaded
}

// IsLoading reports whether some but not all frames were inserted.
func (ix *Index) IsLoading() bool {
	return ix.loaded > 0 && ix.loaded < ix.ExpectedTotal()
}

// State returns the current load state.
func (ix *Index) State() State {
	switch {
	case ix.finished:
		return StateComplete
	case ix.loaded > 0:
		return StateLoading
	default:
		return StateEmpty
	}
}

// Started reports whether BeginLoad was called or a frame was inserted.
func (ix *Index) Started() bool {
	return ix.started
}

// BeginLoad marks the start of a load. It fails if a load already started or
// every frame is present.
func (ix *Index) BeginLoad() error {
	if ix.finished {
		return fmt.Errorf("%w: animation %q", ErrAlreadyLoaded, ix.name)
	}
	if ix.started {
		return fmt.Errorf("%w: animation %q (%d of %d frames)", ErrAlreadyLoading, ix.name, ix.loaded, ix.ExpectedTotal())
	}
	ix.started = true
	return nil
}

// InsertFrame stores payload under the key encoded in sourceKey. The key is
// taken from sourceKey as is; the current parameter values play no role. The
// first inserted frame fixes the zero-padding width of every parameter it
// names.
func (ix *Index) InsertFrame(payload any, sourceKey string) error {
	if ix.finished {
		return fmt.Errorf("%w: animation %q rejects %q", ErrAlreadyLoaded, ix.name, sourceKey)
	}

	pairs, err := framekey.Parse(sourceKey)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if _, ok := ix.params[pair.Name]; !ok {
			return fmt.Errorf("%w: %q is part of %q, but no control sets it", ErrUnboundParameter, pair.Name, sourceKey)
		}
	}

	key := framekey.Format(pairs)
	if _, exists := ix.frames[key]; exists {
		return fmt.Errorf("%w: %q (from %q)", ErrDuplicateFrame, key, sourceKey)
	}

	if len(ix.frames) == 0 {
		for _, pair := range pairs {
			ix.params[pair.Name].SetDigitWidth(pair.Width())
		}
	}

	ix.started = true
	ix.frames[key] = payload
	ix.loaded++

	progress := Progress{Loaded: ix.loaded, Total: ix.ExpectedTotal(), Key: key}
	ix.events.Publish(frameLoaded, progress)

	if ix.loaded == progress.Total && !ix.finished {
		ix.finished = true
		ix.events.Publish(loadingFinished, progress)
	}
	return nil
}

// Lookup returns the frame for the current parameter values.
func (ix *Index) Lookup() (any, error) {
	key := ix.CompositeKey()
	frame, ok := ix.frames[key]
	if !ok {
		return nil, fmt.Errorf(
			"%w: animation %q has no frame %q; controls must be declared in the same order as the archive names them",
			ErrNotFound, ix.name, key,
		)
	}
	return frame, nil
}

// LookupKey returns the frame stored under an explicit composite key.
func (ix *Index) LookupKey(key string) (any, bool) {
	frame, ok := ix.frames[key]
	return frame, ok
}

// OnFrameLoaded registers fn to run after every inserted frame.
func (ix *Index) OnFrameLoaded(fn func(Progress)) notify.Handle {
	return ix.events.Subscribe(frameLoaded, fn)
}

// OnLoadingFinished registers fn to run once the last expected frame arrives.
func (ix *Index) OnLoadingFinished(fn func(Progress)) notify.Handle {
	return ix.events.Subscribe(loadingFinished, fn)
}

// Unsubscribe removes a frame-loaded or loading-finished subscription.
func (ix *Index) Unsubscribe(h notify.Handle) bool {
	return ix.events.Unsubscribe(h)
}

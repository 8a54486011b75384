package control

import (
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
)

// Selection drives a parameter that picks one of size options.
type Selection struct {
	base
}

// NewSelection creates a selection over the options 0..size-1.
func NewSelection(name string, size int, selected int) (*Selection, error) {
	p, err := param.New(name, 0, float64(size-1), 1, param.WithDefault(float64(selected)))
	if err != nil {
		return nil, err
	}
	return &Selection{base{kind: config.KindSelection, name: name, params: []*param.Parameter{p}}}, nil
}

// Selected returns the selected option.
func (s *Selection) Selected() int {
	return s.params[0].Index()
}

// Select picks option i.
func (s *Selection) Select(i int) error {
	return s.SetParameter(s.name, float64(i))
}

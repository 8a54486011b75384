// Package control provides the adapters that drive animation parameters:
// sliders, checkboxes, selections and pointer locators.
//
// Every adapter implements seqindex.Control. Adapters stay disabled until
// the index they are attached to reports that loading finished; setters
// called before that fail with ErrDisabled. Views render adapters through
// Describe, which never changes parameter state.
package control

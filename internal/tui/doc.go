// Package tui is a terminal view of a session built on bubbletea.
//
// Keys: up/down select a parameter, left/right nudge it by one step, space
// toggles a checkbox, enter loads the animation, tab switches animation and
// q quits. Images are drawn with half-block cells, data frames as text.
package tui

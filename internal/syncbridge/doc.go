// Package syncbridge keeps parameters of two animations in step.
//
// A Bridge holds one Binding per parameter pair. Each Binding subscribes to
// both parameters and copies every change to its partner. Feedback ends
// after one round trip because a parameter does not notify when it is set to
// the value it already has.
package syncbridge

// Package viewer serves a session over socket.io so browsers and remote
// drivers can scrub animations.
//
// Client to server events:
//
//	load   {animation}
//	set    {animation, parameter, value}
//	nudge  {animation, parameter, steps}
//	input  {animation, control, text}
//	toggle {animation, control}
//	point  {animation, control, x, y, width, height}
//
// Server to client events: animations, thumbnail, progress, ready, value,
// frame and error. Besides socket.io the HTTP handler exposes /health,
// /animations, /frame/{animation} and /thumbnail/{animation}.
package viewer

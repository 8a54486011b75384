// Package remote drives a running viewer over socket.io. Requests are sent
// with acknowledgements so every call reports whether the viewer applied it;
// frames are fetched from the viewer's HTTP endpoint.
package remote

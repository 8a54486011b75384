// Package archive reads the zip bundles that hold the frames of an
// animation.
//
// An archive is opened from a local path or fetched over HTTP(S). Before
// entries are decoded, the total uncompressed size is checked against the
// memory available on the host. Stream decodes entries on a bounded set of
// workers and hands them to a single consumer in completion order.
package archive

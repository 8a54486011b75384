// Package thumbnail renders the preview shown for an animation that has not
// been loaded yet. Previews are PDF documents (first page) or plain images,
// scaled down to a maximum width and encoded as PNG.
package thumbnail

package archive

import (
	"path"
	"strings"
)

// Kind classifies an archive entry by its payload.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

var kinds = map[string]struct {
	kind Kind
	mime string
}{
	".png":  {KindImage, "image/png"},
	".jpg":  {KindImage, "image/jpeg"},
	".jpeg": {KindImage, "image/jpeg"},
	".gif":  {KindImage, "image/gif"},
	".bmp":  {KindImage, "image/bmp"},
	".tif":  {KindImage, "image/tiff"},
	".tiff": {KindImage, "image/tiff"},
	".webp": {KindImage, "image/webp"},
	".json": {KindData, "application/json"},
	".yaml": {KindData, "application/yaml"},
	".yml":  {KindData, "application/yaml"},
	".csv":  {KindData, "text/csv"},
	".txt":  {KindData, "text/plain"},
}

// KindOf classifies name by its extension and returns the MIME type of the
// payload. Metadata written by macOS archivers (the __MACOSX folder and ._
// resource forks) is always unknown.
func KindOf(name string) (Kind, string) {
	if isAppleMetadata(name) {
		return KindUnknown, ""
	}
	k, ok := kinds[strings.ToLower(path.Ext(name))]
	if !ok {
		return KindUnknown, ""
	}
	return k.kind, k.mime
}

func isAppleMetadata(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") ||
		strings.HasPrefix(path.Base(name), "._")
}

// Key returns the part of an entry name that encodes parameter values: the
// base name without directories and extension.
func Key(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

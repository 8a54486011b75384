package viewer

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

// WriteQR prints url and a terminal QR code of it, so a phone on the same
// network can open the viewer.
func WriteQR(w io.Writer, url string) error {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to encode %q as QR code: %w", url, err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s", url, code.ToSmallString(false))
	return err
}

//go:build !linux

package platform

// NewReader returns a reader that always fails on platforms without X11.
func NewReader() Reader {
	return ReaderFunc(func() ([]Display, error) {
		return nil, ErrUnsupported
	})
}

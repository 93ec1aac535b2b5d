package barcode

import (
	"bytes"
	"context"
	"io"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the default edge length of rendered barcodes, in pixels.
const DefaultSize = 256

// Encoder renders text as a barcode image.
type Encoder interface {
	Encode(ctx context.Context, text string) (io.ReadSeekCloser, error)
}

// BlobStore persists rendered barcodes.
type BlobStore interface {
	Save(ctx context.Context, r io.Reader, path string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// QREncoder renders PNG QR codes.
type QREncoder struct {
	size     int
	recovery qrcode.RecoveryLevel
}

// NewQREncoder creates an encoder producing size x size PNG images with medium error recovery.
func NewQREncoder(size int) *QREncoder {
	if size <= 0 {
		size = DefaultSize
	}

	return &QREncoder{size: size, recovery: qrcode.Medium}
}

func (e *QREncoder) Encode(ctx context.Context, text string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(text, e.recovery, e.size)
	if err != nil {
		return nil, err
	}

	return NewMemoryStream(png), nil
}

// memoryStream is a seekable in-memory stream with a no-op Close.
type memoryStream struct {
	*bytes.Reader
}

// NewMemoryStream wraps b as an io.ReadSeekCloser.
func NewMemoryStream(b []byte) io.ReadSeekCloser {
	return memoryStream{Reader: bytes.NewReader(b)}
}

func (memoryStream) Close() error { return nil }

var _ Encoder = (*QREncoder)(nil)

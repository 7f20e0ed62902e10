package media

import (
	"bytes"
	"errors"
)

// Photo uploads are sniffed by magic bytes rather than trusting the
// client-declared content type.

type PhotoType string

const (
	TypeJPEG PhotoType = "jpeg"
	TypePNG  PhotoType = "png"
	TypeWEBP PhotoType = "webp"
)

var ErrUnsupportedType = errors.New("unsupported photo type")

type Result struct {
	Type PhotoType
	MIME string
}

// DetectPhoto inspects the leading bytes of an upload and returns its type,
// or ErrUnsupportedType for anything that is not a recognized photo format.
func DetectPhoto(head []byte) (Result, error) {
	switch {
	case isJPEG(head):
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	case isPNG(head):
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	case isWEBP(head):
		return Result{Type: TypeWEBP, MIME: "image/webp"}, nil
	}
	return Result{}, ErrUnsupportedType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

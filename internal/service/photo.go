package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/RushabhBarot/CityFix/internal/ids"
	"github.com/RushabhBarot/CityFix/internal/media"
	"github.com/RushabhBarot/CityFix/internal/storage"
)

// Photo is an in-memory upload taken off a multipart request.
type Photo struct {
	Data []byte
}

// uploadPhoto sniffs the payload, refuses anything that is not a known photo
// format, and stores it under a fresh date-prefixed key.
func uploadPhoto(ctx context.Context, files FileStore, kind string, photo Photo) (string, error) {
	if len(photo.Data) == 0 {
		return "", media.ErrUnsupportedType
	}

	result, err := media.DetectPhoto(photo.Data)
	if err != nil {
		return "", err
	}

	key := storage.ObjectKey(kind, ids.New(), string(result.Type))
	url, err := files.Upload(ctx, key, bytes.NewReader(photo.Data), int64(len(photo.Data)), result.MIME)
	if err != nil {
		return "", fmt.Errorf("upload %s photo: %w", kind, err)
	}
	return url, nil
}

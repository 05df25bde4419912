package failure

import (
	"commentadmin/domain"
	"context"
)

type Repository interface {
	CreateFailure(ctx context.Context, failure domain.SystemFailure) (domain.SystemFailure, error)
	GetFailures(ctx context.Context) ([]domain.SystemFailure, error)
}

// PictureStore keeps failure screenshots in object storage.
type PictureStore interface {
	Upload(key string, data []byte) error
	Delete(key string) error
	URL(key string) string
}

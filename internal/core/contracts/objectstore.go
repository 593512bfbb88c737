package contracts

import (
	"context"

	"github.com/google/uuid"
)

// ObjectStore issues presigned URLs against the attachment bucket.
// Attachment bytes never travel through this service.
type ObjectStore interface {
	PresignPut(ctx context.Context, objectID uuid.UUID, contentType string) (string, error)
	PresignGet(ctx context.Context, objectID uuid.UUID) (string, error)
}

package storage

import (
	"context"
	"time"

	storage_go "github.com/supabase-community/storage-go"
	supabase "github.com/supabase-community/supabase-go"
)

// objectSigner is implemented by *storage_go.Client.
type objectSigner interface {
	CreateSignedUrl(bucketId string, filePath string, expiresIn int) (storage_go.SignedUrlResponse, error)
}

var _ objectSigner = (*storage_go.Client)(nil)

// SupabaseSigner signs objects in a Supabase storage bucket.
type SupabaseSigner struct {
	client objectSigner
	bucket string
}

func NewSupabaseSigner(client *supabase.Client, bucket string) *SupabaseSigner {
	return &SupabaseSigner{client: client.Storage, bucket: bucket}
}

func (s *SupabaseSigner) SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := s.client.CreateSignedUrl(s.bucket, objectPath, int(ttl.Seconds()))
	if err != nil {
		return "", err
	}
	return resp.SignedURL, nil
}

package storage

// ObjectSigner exposes the storage client interface to external tests.
type ObjectSigner = objectSigner

func NewSupabaseSignerWithClient(client objectSigner, bucket string) *SupabaseSigner {
	return &SupabaseSigner{client: client, bucket: bucket}
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrMalformedLocator means the stored file URL does not name an object in the bucket.
	ErrMalformedLocator = errors.New("unrecognized audio locator")
	ErrSignedURL        = errors.New("failed to issue signed URL")
	ErrFetch            = errors.New("failed to fetch audio file")
	ErrTooLarge         = errors.New("audio file too large")
)

const (
	DefaultSignedURLTTL = time.Hour
	DefaultMaxBytes     = 25 << 20
)

// ObjectPath derives the object path inside bucket from a public object URL
// of the form .../object/public/<bucket>/<path>.
func ObjectPath(fileURL, bucket string) (string, error) {
	re := regexp.MustCompile(`/object/public/` + regexp.QuoteMeta(bucket) + `/(.+)$`)
	m := re.FindStringSubmatch(fileURL)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedLocator, fileURL)
	}
	return m[1], nil
}

// PublicURL is the inverse of ObjectPath for a project base URL.
func PublicURL(baseURL, bucket, objectPath string) string {
	return strings.TrimSuffix(baseURL, "/") + "/storage/v1/object/public/" + bucket + "/" + strings.TrimPrefix(objectPath, "/")
}

// URLSigner issues time-limited download URLs for private objects.
type URLSigner interface {
	SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Object is a downloaded audio object.
type Object struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Resolver turns a stored locator into audio bytes.
type Resolver struct {
	signer   URLSigner
	client   httpDoer
	bucket   string
	ttl      time.Duration
	maxBytes int64
	log      zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithMaxBytes(n int64) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

func WithHTTPClient(c httpDoer) ResolverOption {
	return func(r *Resolver) {
		r.client = c
	}
}

func NewResolver(signer URLSigner, bucket string, log zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		signer:   signer,
		client:   &http.Client{Timeout: 5 * time.Minute},
		bucket:   bucket,
		ttl:      DefaultSignedURLTTL,
		maxBytes: DefaultMaxBytes,
		log:      log.With().Str("component", "storage").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve derives the object path, signs it and downloads the bytes.
func (r *Resolver) Resolve(ctx context.Context, fileURL string) (*Object, error) {
	objectPath, err := ObjectPath(fileURL, r.bucket)
	if err != nil {
		return nil, err
	}

	signed, err := r.signer.SignedURL(ctx, objectPath, r.ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignedURL, err)
	}
	if signed == "" {
		return nil, ErrSignedURL
	}

	data, contentType, err := r.download(ctx, signed)
	if err != nil {
		return nil, err
	}

	r.log.Debug().Str("path", objectPath).Int("bytes", len(data)).Msg("Fetched audio")
	return &Object{Data: data, Filename: path.Base(objectPath), ContentType: contentType}, nil
}

func (r *Resolver) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, "", fmt.Errorf("%w: %w (limit %d bytes)", ErrFetch, ErrTooLarge, r.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return data, contentType, nil
}

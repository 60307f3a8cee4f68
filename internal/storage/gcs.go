// Package storage wraps the Google Cloud Storage client behind a small
// gateway: list the bucket, upload new artifacts, mint signed read URLs.
// The gateway is constructed once at startup and shared by all handlers;
// it is read-only after construction, so no locking is needed.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Trevorton27/voice-app/internal/artifact"
	"github.com/Trevorton27/voice-app/internal/config"
)

// SignedURLTTL is how long a minted read URL stays valid. URLs are minted
// fresh on every list/upload response and never cached.
const SignedURLTTL = 15 * time.Minute

// Object is one stored object as seen by the gateway, with a read URL
// already minted.
type Object struct {
	Name     string
	Size     int64
	Created  time.Time
	Metadata map[string]string
	ReadURL  string
}

// UploadRequest carries one new object into the bucket.
type UploadRequest struct {
	Content io.Reader
	// OriginalName is the client's filename; it is sanitized before being
	// baked into the object key.
	OriginalName string
	ContentType  string
	// Prefix is the destination folder, without surrounding slashes.
	Prefix   string
	Metadata map[string]string
}

// UploadResult reports where an upload landed and how to read it back.
type UploadResult struct {
	ObjectName string
	SignedURL  string
	// PublicURL is best-effort: it only resolves if the bucket or object is
	// public, which this system does not guarantee.
	PublicURL string
}

// Gateway is the storage surface the handlers depend on.
type Gateway interface {
	List(ctx context.Context, prefix string) ([]Object, error)
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	SignedReadURL(objectName string) (string, error)
	Bucket() string
}

// GCSGateway implements Gateway against a single Google Cloud Storage bucket.
type GCSGateway struct {
	client *gcs.Client
	bucket string
	creds  *Credentials
}

// NewGCSGateway validates the storage configuration, loads the
// service-account key, and constructs the client. Any failure here is a
// configuration error and must be reported per request, not panicked on.
func NewGCSGateway(ctx context.Context, cfg config.StorageConfig) (*GCSGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := LoadCredentials(cfg.CredentialsB64, cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON(creds.RawJSON()))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSGateway{client: client, bucket: cfg.Bucket, creds: creds}, nil
}

func (g *GCSGateway) Bucket() string { return g.bucket }

// Close releases the underlying client. Called once at shutdown.
func (g *GCSGateway) Close() error { return g.client.Close() }

// List enumerates the bucket (optionally under prefix) and mints a fresh
// signed read URL per object. An empty bucket is an empty slice, not an
// error. Results are ordered newest first.
func (g *GCSGateway) List(ctx context.Context, prefix string) ([]Object, error) {
	query := &gcs.Query{}
	if prefix != "" {
		query.Prefix = strings.Trim(prefix, "/") + "/"
	}

	objects := []Object{}
	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list bucket %q: %w", g.bucket, err)
		}

		readURL, err := g.SignedReadURL(attrs.Name)
		if err != nil {
			return nil, fmt.Errorf("sign read url for %q: %w", attrs.Name, err)
		}

		objects = append(objects, Object{
			Name:     attrs.Name,
			Size:     attrs.Size,
			Created:  attrs.Created,
			Metadata: attrs.Metadata,
			ReadURL:  readURL,
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Created.After(objects[j].Created)
	})
	return objects, nil
}

// Upload writes a new object at <prefix>/<uploadMillis>-<sanitizedName>.
// The timestamp component makes concurrent uploads of the same filename
// land on distinct keys; objects are written once and never rewritten.
func (g *GCSGateway) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	name := objectName(req.Prefix, req.OriginalName, time.Now())

	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = req.ContentType
	if w.ContentType == "" {
		w.ContentType = "application/octet-stream"
	}
	w.CacheControl = "public, max-age=31536000"
	w.Metadata = req.Metadata
	// Single-request upload; these objects are small enough that resumable
	// sessions only add round trips.
	w.ChunkSize = 0

	if _, err := io.Copy(w, req.Content); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write object %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("write object %q: %w", name, err)
	}

	signedURL, err := g.SignedReadURL(name)
	if err != nil {
		return nil, fmt.Errorf("sign read url for %q: %w", name, err)
	}

	return &UploadResult{
		ObjectName: name,
		SignedURL:  signedURL,
		PublicURL:  publicURL(g.bucket, name),
	}, nil
}

// SignedReadURL issues a V4, read-only URL valid for SignedURLTTL.
func (g *GCSGateway) SignedReadURL(objectName string) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(objectName, &gcs.SignedURLOptions{
		Scheme:         gcs.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(SignedURLTTL),
		GoogleAccessID: g.creds.ClientEmail,
		PrivateKey:     []byte(g.creds.PrivateKey),
	})
}

func objectName(prefix, originalName string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s",
		strings.Trim(prefix, "/"),
		now.UnixMilli(),
		artifact.SanitizeFilename(originalName))
}

func publicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s",
		bucket, url.PathEscape(objectName))
}

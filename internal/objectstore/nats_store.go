// Package objectstore archives generated audio in a NATS JetStream object
// store bucket.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ContentTypeWAV is recorded on every archived clip.
const ContentTypeWAV = "audio/wav"

const (
	headerContentType = "Content-Type"
	metadataSource    = "source"
	sourceITTS        = "itts"
)

var (
	// ErrBucketEmpty indicates a store without a bucket name.
	ErrBucketEmpty = errors.New("bucket name cannot be empty")
	// ErrKeyEmpty indicates an object operation without a key.
	ErrKeyEmpty = errors.New("object key cannot be empty")
)

// Options configures the archive bucket.
type Options struct {
	Bucket string
	// TTL expires archived clips. Zero keeps them forever.
	TTL time.Duration
	// MaxBytes caps the bucket size. Zero means unlimited.
	MaxBytes int64
	// Memory keeps the bucket in memory instead of on disk.
	Memory bool
}

// NatsObjectStore implements core.ObjectStore on a JetStream object store.
type NatsObjectStore struct {
	bucket string
	store  nats.ObjectStore
}

// New creates the bucket described by opts, or binds to it when it already
// exists.
func New(jetstreamContext nats.JetStreamContext, opts Options) (*NatsObjectStore, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketEmpty
	}

	storage := nats.FileStorage
	if opts.Memory {
		storage = nats.MemoryStorage
	}

	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      opts.Bucket,
		Description: "Generated speech archived from the ITTS service.",
		TTL:         opts.TTL,
		MaxBytes:    opts.MaxBytes,
		Storage:     storage,
		Replicas:    1,
		Placement:   nil,
		Metadata:    nil,
		Compression: false,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return nil, fmt.Errorf("failed to create audio bucket '%s': %w", opts.Bucket, err)
		}

		store, err = jetstreamContext.ObjectStore(opts.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to audio bucket '%s': %w", opts.Bucket, err)
		}
	}

	return &NatsObjectStore{
		bucket: opts.Bucket,
		store:  store,
	}, nil
}

// Bucket returns the bucket name.
func (n *NatsObjectStore) Bucket() string {
	return n.bucket
}

// Download reads the clip stored under key.
func (n *NatsObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	obj, err := n.store.Get(key, nats.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get clip '%s' from bucket '%s': %w", key, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read clip '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close clip '%s': %w", key, closeErr)
	}

	return data, nil
}

// Upload stores data under key, tagged as WAV audio from the ITTS service.
func (n *NatsObjectStore) Upload(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}

	headers := nats.Header{}
	headers.Set(headerContentType, ContentTypeWAV)

	_, err := n.store.Put(&nats.ObjectMeta{
		Name:        key,
		Description: "",
		Headers:     headers,
		Metadata:    map[string]string{metadataSource: sourceITTS},
		Opts:        nil,
	}, bytes.NewReader(data), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to put clip '%s' to bucket '%s': %w", key, n.bucket, err)
	}

	return nil
}

// Exists reports whether a clip is stored under key.
func (n *NatsObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := n.store.GetInfo(key, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat clip '%s': %w", key, err)
	}

	return true, nil
}

// Keys lists the archived clip names. An empty bucket yields an empty list.
func (n *NatsObjectStore) Keys(ctx context.Context) ([]string, error) {
	infos, err := n.store.List(nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrNoObjectsFound) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("failed to list bucket '%s': %w", n.bucket, err)
	}

	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Name)
	}

	return keys, nil
}

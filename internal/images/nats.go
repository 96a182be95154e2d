package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamStore keeps images in a NATS JetStream object store bucket.
type JetStreamStore struct {
	conn  *nats.Conn
	store jetstream.ObjectStore
}

// NewJetStreamStore connects to NATS and opens the bucket, creating it if needed.
func NewJetStreamStore(ctx context.Context, natsURL, bucket string) (*JetStreamStore, error) {
	conn, err := nats.Connect(natsURL, nats.Name("storefront-images"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	store, err := js.ObjectStore(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      bucket,
			Description: "Product images",
		})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open object store %s: %w", bucket, err)
	}

	return &JetStreamStore{conn: conn, store: store}, nil
}

func (s *JetStreamStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	meta := jetstream.ObjectMeta{
		Name:    name,
		Headers: nats.Header{"Content-Type": []string{contentType}},
	}
	if _, err := s.store.Put(ctx, meta, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *JetStreamStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	if !ValidName(name) {
		return nil, "", ErrNotFound
	}
	res, err := s.store.Get(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get object: %w", err)
	}
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		return nil, "", fmt.Errorf("read object: %w", err)
	}
	info, err := res.Info()
	if err != nil {
		return nil, "", fmt.Errorf("object info: %w", err)
	}

	ct := "application/octet-stream"
	if info.Headers != nil && info.Headers.Get("Content-Type") != "" {
		ct = info.Headers.Get("Content-Type")
	}
	return data, ct, nil
}

func (s *JetStreamStore) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

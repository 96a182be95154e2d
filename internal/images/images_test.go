package images

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestNewName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		in   string
		want *regexp.Regexp
	}{
		{in: "Bottle.PNG", want: regexp.MustCompile(`^product-1700000000123-[0-9a-f]{8}\.png$`)},
		{in: "noext", want: regexp.MustCompile(`^product-1700000000123-[0-9a-f]{8}$`)},
		{in: "evil.p/ng", want: regexp.MustCompile(`^product-1700000000123-[0-9a-f]{8}$`)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NewName(tt.in, now)
			assert.Regexp(t, tt.want, got)
			assert.True(t, ValidName(got))
		})
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("product-1-abc.png"))
	assert.False(t, ValidName("../etc/passwd"))
	assert.False(t, ValidName("a/b.png"))
	assert.False(t, ValidName(".hidden"))
	assert.False(t, ValidName("a..png"))
}

func TestSave_DiskRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	url, err := Save(ctx, store, "bottle.png", "image/png", pngBytes)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, URLPrefix))

	data, ct, err := store.Get(ctx, strings.TrimPrefix(url, URLPrefix))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = store.Get(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_RejectsNonImages(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = Save(context.Background(), store, "notes.txt", "text/plain", []byte("hello"))
	assert.ErrorIs(t, err, ErrNotAnImage)

	url, err := Save(context.Background(), store, "sniffed.png", "", pngBytes)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

// Needs a JetStream-enabled server, e.g. NATS_TEST_URL=nats://localhost:4222.
func TestJetStreamStore_RoundTrip(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewJetStreamStore(ctx, url, "storefront-test-images")
	require.NoError(t, err)
	defer store.Close()

	name := NewName("bottle.png", time.Now())
	require.NoError(t, store.Put(ctx, name, pngBytes, "image/png"))

	data, ct, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = store.Get(ctx, "product-0-missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

func TestUploadAndDownload(t *testing.T) {
	backend := New("content-images")
	ctx := context.Background()

	require.NoError(t, backend.EnsureBucket(ctx))
	require.NoError(t, backend.Upload(ctx, "key.jpg", strings.NewReader("payload"), "image/jpeg"))
	assert.Equal(t, 1, backend.ObjectCount())

	reader, err := backend.Download(ctx, "key.jpg")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestUploadOverwrites(t *testing.T) {
	backend := New("content-images")
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "key.jpg", strings.NewReader("first"), "image/jpeg"))
	require.NoError(t, backend.Upload(ctx, "key.jpg", strings.NewReader("second"), "image/jpeg"))
	assert.Equal(t, 1, backend.ObjectCount())

	reader, err := backend.Download(ctx, "key.jpg")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDelete(t *testing.T) {
	backend := New("content-images")
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "key.jpg", strings.NewReader("payload"), "image/jpeg"))
	require.NoError(t, backend.Delete(ctx, "key.jpg"))
	assert.Equal(t, 0, backend.ObjectCount())

	assert.ErrorIs(t, backend.Delete(ctx, "key.jpg"), record.ErrObjectNotFound)
	_, err := backend.Download(ctx, "key.jpg")
	assert.ErrorIs(t, err, record.ErrObjectNotFound)
}

func TestPublicURL(t *testing.T) {
	backend := New("content-images")
	assert.Equal(t, "memory://content-images/key.jpg", backend.PublicURL("key.jpg"))
}

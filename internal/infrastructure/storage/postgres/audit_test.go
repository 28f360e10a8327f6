package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()
	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	return &AuditService{encoder: encoder, decoder: decoder, compressThreshold: DefaultCompressThreshold}
}

func TestAuditService_SmallChangesStayPlain(t *testing.T) {
	s := newTestAuditService(t)
	entry := AuditEntry{Changes: json.RawMessage(`{"status":"completed"}`)}

	s.compress(&entry)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Nil(t, entry.ChangesCompressed)
	assert.JSONEq(t, `{"status":"completed"}`, string(entry.Changes))
}

func TestAuditService_CompressRoundTrip(t *testing.T) {
	s := newTestAuditService(t)
	notes := bytes.Repeat([]byte("a"), DefaultCompressThreshold+1)
	original, err := json.Marshal(map[string]any{"notes": string(notes)})
	require.NoError(t, err)

	entry := AuditEntry{Changes: original}
	s.compress(&entry)

	require.Equal(t, CompressionZstd, entry.CompressionAlgo)
	assert.Nil(t, entry.Changes)
	assert.Less(t, len(entry.ChangesCompressed), len(original))

	require.NoError(t, s.decompress(&entry))
	assert.Equal(t, string(original), string(entry.Changes))
	assert.Nil(t, entry.ChangesCompressed)
}

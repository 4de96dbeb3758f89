package sync

import (
	"bytes"
	"testing"
	"time"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEdits() []TileEdit {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 42, time.UTC)
	return []TileEdit{
		{X: 1, Y: 2, Z: 3, Type: tile.Stone, Source: "node-a", Timestamp: ts},
		{X: -5, Y: 63, Z: 127, Type: tile.Air, Source: "", Timestamp: ts.Add(time.Second)},
		{X: 70000, Y: 0, Z: 0, Type: tile.Type(200), Source: "узел-б", Timestamp: ts},
	}
}

func TestRawCodec_RoundTrip(t *testing.T) {
	codec := NewRawCodec()
	payload, err := codec.Encode(sampleEdits())
	require.NoError(t, err)

	decoded, err := codec.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, sampleEdits(), decoded, "Отрицательные координаты, неизвестный тип и UTF-8 источник сохраняются")

	empty, err := codec.Encode(nil)
	require.NoError(t, err)
	decoded, err = codec.Decode(empty)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestRawCodec_Corrupt(t *testing.T) {
	codec := NewRawCodec()
	payload, err := codec.Encode(sampleEdits())
	require.NoError(t, err)

	_, err = codec.Decode(payload[:len(payload)-3])
	assert.ErrorIs(t, err, ErrCorruptBatch, "Обрезанная запись")

	_, err = codec.Decode([]byte{0, 0})
	assert.ErrorIs(t, err, ErrCorruptBatch, "Обрезанный заголовок")

	_, err = codec.Decode([]byte{0, 0, 0, 1, 9})
	assert.ErrorIs(t, err, ErrCorruptBatch, "Слишком короткая запись")
}

func TestZstdCodec_CompressesAndRoundTrips(t *testing.T) {
	codec, err := NewZstdCodec()
	require.NoError(t, err)

	edits := make([]TileEdit, 0, 500)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		edits = append(edits, TileEdit{X: i % 128, Y: 10, Z: 5, Type: tile.Planks, Source: "node-a", Timestamp: ts})
	}

	compressed, err := codec.Encode(edits)
	require.NoError(t, err)
	raw, err := NewRawCodec().Encode(edits)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(raw)/4, "Однотипные правки хорошо сжимаются")

	decoded, err := codec.Decode(compressed)
	require.NoError(t, err)
	assert.Equal(t, edits, decoded)

	_, err = codec.Decode(bytes.Repeat([]byte{0xAB}, 32))
	assert.ErrorIs(t, err, ErrCorruptBatch)
}

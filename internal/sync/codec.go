package sync

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/klauspost/compress/zstd"
)

// EditCodec кодирует/декодирует пакет правок в полезную нагрузку события.
type EditCodec interface {
	Encode(edits []TileEdit) ([]byte, error)
	Decode(payload []byte) ([]TileEdit, error)
}

// ErrCorruptBatch возвращается при повреждённой полезной нагрузке
var ErrCorruptBatch = errors.New("sync: повреждённый пакет правок")

// фиксированная часть записи: x, y, z (int32), тип (uint8), время (int64), длина источника (uint16)
const recordHeaderSize = 4*3 + 1 + 8 + 2

type rawCodec struct{}

// NewRawCodec возвращает кодек без сжатия: последовательность записей
// [len uint32][запись].
func NewRawCodec() EditCodec { return rawCodec{} }

func (rawCodec) Encode(edits []TileEdit) ([]byte, error) {
	buf := make([]byte, 0, len(edits)*(4+recordHeaderSize+8))
	for _, e := range edits {
		if len(e.Source) > 0xFFFF {
			return nil, fmt.Errorf("источник правки слишком длинный: %d байт", len(e.Source))
		}
		n := recordHeaderSize + len(e.Source)
		buf = binary.BigEndian.AppendUint32(buf, uint32(n))
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(e.X)))
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(e.Y)))
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(e.Z)))
		buf = append(buf, byte(e.Type))
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Timestamp.UnixNano()))
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(e.Source)))
		buf = append(buf, e.Source...)
	}
	return buf, nil
}

func (rawCodec) Decode(payload []byte) ([]TileEdit, error) {
	var res []TileEdit
	for i := 0; i < len(payload); {
		if i+4 > len(payload) {
			return res, fmt.Errorf("%w: обрезан заголовок записи на смещении %d", ErrCorruptBatch, i)
		}
		n := int(binary.BigEndian.Uint32(payload[i:]))
		i += 4
		if n < recordHeaderSize || i+n > len(payload) {
			return res, fmt.Errorf("%w: некорректная длина записи %d", ErrCorruptBatch, n)
		}
		rec := payload[i : i+n]
		i += n

		srcLen := int(binary.BigEndian.Uint16(rec[21:]))
		if recordHeaderSize+srcLen != n {
			return res, fmt.Errorf("%w: длина источника %d не совпадает с записью", ErrCorruptBatch, srcLen)
		}
		res = append(res, TileEdit{
			X:         int(int32(binary.BigEndian.Uint32(rec[0:]))),
			Y:         int(int32(binary.BigEndian.Uint32(rec[4:]))),
			Z:         int(int32(binary.BigEndian.Uint32(rec[8:]))),
			Type:      tile.Type(rec[12]),
			Timestamp: time.Unix(0, int64(binary.BigEndian.Uint64(rec[13:]))).UTC(),
			Source:    string(rec[recordHeaderSize:]),
		})
	}
	return res, nil
}

// zstdCodec сжимает записи rawCodec через zstd
type zstdCodec struct {
	raw rawCodec
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstdCodec создаёт кодек со сжатием zstd
func NewZstdCodec() (EditCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (z *zstdCodec) Encode(edits []TileEdit) ([]byte, error) {
	raw, err := z.raw.Encode(edits)
	if err != nil {
		return nil, err
	}
	return z.enc.EncodeAll(raw, nil), nil
}

func (z *zstdCodec) Decode(payload []byte) ([]TileEdit, error) {
	raw, err := z.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCorruptBatch, err)
	}
	return z.raw.Decode(raw)
}

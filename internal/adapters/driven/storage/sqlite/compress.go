package sqlite

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Value encodings stored alongside each session row.
const (
	encodingJSON = "json"
	encodingZstd = "json+zstd"
)

// compressThreshold is the encoded size above which values are compressed.
// Only the result collection normally crosses it.
const compressThreshold = 4 << 10

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder
}

// encodeValue compresses data when it is large enough to be worth it.
func encodeValue(data []byte) ([]byte, string) {
	if len(data) < compressThreshold {
		return data, encodingJSON
	}
	return zstdEncoder().EncodeAll(data, make([]byte, 0, len(data)/4)), encodingZstd
}

// decodeValue reverses encodeValue.
func decodeValue(data []byte, encoding string) ([]byte, error) {
	switch encoding {
	case encodingJSON, "":
		return data, nil
	case encodingZstd:
		out, err := zstdDecoder().DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing value: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown value encoding %q", encoding)
	}
}

package kmeans

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/kmeans/distance"
)

// CompressionType defines the compression algorithm used for saved models.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

// modelMagic identifies a serialized model stream.
var modelMagic = [4]byte{'K', 'M', 'N', 'S'}

const modelVersion = 1

// modelHeader frames the compressed gob payload.
// Format: [Magic 4][Version uint8][Compression uint8][UncompressedSize uint32][CompressedSize uint32]
const modelHeaderSize = 14

// Model is a trained set of centroids, usable for classifying new vectors
// and for persistence.
type Model struct {
	Dim       int
	Metric    distance.Metric
	Centroids []float64
}

// NewModel creates a Model from trained centroids.
// centroids is point-contiguous with len(centroids)/dim columns.
func NewModel(dim int, metric distance.Metric, centroids []float64) *Model {
	return &Model{
		Dim:       dim,
		Metric:    metric,
		Centroids: centroids,
	}
}

// K returns the number of clusters.
func (m *Model) K() int {
	if m.Dim <= 0 {
		return 0
	}
	return len(m.Centroids) / m.Dim
}

// Assign finds the closest centroid for a vector.
func (m *Model) Assign(vec []float64) (int, error) {
	return Assign(vec, m.Centroids, m.Dim, m.Metric)
}

// WriteTo serializes the model to w: a framed gob payload, optionally
// block-compressed. If compression does not shrink the payload, the block
// is stored uncompressed.
func (m *Model) WriteTo(w io.Writer, compression CompressionType) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(m); err != nil {
		return err
	}
	raw := payload.Bytes()

	var compressed []byte
	switch compression {
	case CompressionNone:
		// Handled below.
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		var c lz4.Compressor
		n, err := c.CompressBlock(raw, buf)
		if err != nil {
			return err
		}
		if n > 0 && n < len(raw) {
			compressed = buf[:n]
		}
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		encoded := enc.EncodeAll(raw, nil)
		_ = enc.Close()
		if len(encoded) < len(raw) {
			compressed = encoded
		}
	default:
		return fmt.Errorf("unknown compression type: %d", compression)
	}

	var header [modelHeaderSize]byte
	copy(header[0:4], modelMagic[:])
	header[4] = modelVersion
	header[5] = byte(compression)
	binary.LittleEndian.PutUint32(header[6:], uint32(len(raw)))

	// CompressedSize == 0 marks an uncompressed payload (incompressible or
	// CompressionNone).
	body := raw
	if compressed != nil {
		binary.LittleEndian.PutUint32(header[10:], uint32(len(compressed)))
		body = compressed
	}

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(body)

	return err
}

// ReadModel deserializes a model previously written with WriteTo.
func ReadModel(r io.Reader) (*Model, error) {
	var header [modelHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	if !bytes.Equal(header[0:4], modelMagic[:]) {
		return nil, errors.New("not a kmeans model stream")
	}
	if header[4] != modelVersion {
		return nil, fmt.Errorf("unsupported model version: %d", header[4])
	}

	compression := CompressionType(header[5])
	uncompressedSize := binary.LittleEndian.Uint32(header[6:])
	compressedSize := binary.LittleEndian.Uint32(header[10:])

	var raw []byte
	if compressedSize == 0 {
		raw = make([]byte, uncompressedSize)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}
	} else {
		compressed := make([]byte, compressedSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, err
		}

		switch compression {
		case CompressionLZ4:
			raw = make([]byte, uncompressedSize)
			n, err := lz4.UncompressBlock(compressed, raw)
			if err != nil {
				return nil, err
			}
			if uint32(n) != uncompressedSize {
				return nil, errors.New("decompressed size mismatch")
			}
		case CompressionZSTD:
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			raw, err = dec.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
			dec.Close()
			if err != nil {
				return nil, err
			}
			if uint32(len(raw)) != uncompressedSize {
				return nil, errors.New("decompressed size mismatch")
			}
		default:
			return nil, fmt.Errorf("unknown compression type: %d", compression)
		}
	}

	var m Model
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&m); err != nil {
		return nil, err
	}

	return &m, nil
}

package vector

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Snapshot file layout, all integers little-endian:
//
//	magic "LDVX" | version u8 | dims u32 | count u32
//	count * ( idLen u16 | id bytes | sha256(content) | dims * float32 )
//	sha256 of everything above
//
// The trailing checksum makes corruption detectable and the per-chunk
// content hash makes in-place edits detectable, so callers rebuild from
// source rather than serve garbage rankings or stale embeddings.
const (
	snapshotMagic   = "LDVX"
	snapshotVersion = 2
)

// SaveSnapshot writes the index contents to path atomically (write to a
// temp file, then rename).
func (idx *Index) SaveSnapshot(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	dims := 0
	if len(idx.vectors) > 0 {
		dims = len(idx.vectors[0])
	}

	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	buf.WriteByte(snapshotVersion)
	binary.Write(&buf, binary.LittleEndian, uint32(dims))
	binary.Write(&buf, binary.LittleEndian, uint32(len(idx.chunks)))

	for i, chunk := range idx.chunks {
		if len(idx.vectors[i]) != dims {
			return fmt.Errorf("chunk %s: inconsistent vector dimensions", chunk.ID)
		}
		id := []byte(chunk.ID)
		if len(id) > math.MaxUint16 {
			return fmt.Errorf("chunk %s: id too long", chunk.ID)
		}
		binary.Write(&buf, binary.LittleEndian, uint16(len(id)))
		buf.Write(id)
		contentSum := sha256.Sum256([]byte(chunk.Content))
		buf.Write(contentSum[:])
		buf.Write(float32SliceToBytes(idx.vectors[i]))
	}

	sum := sha256.Sum256(buf.Bytes())
	buf.Write(sum[:])

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}

	logger.Debug("Vector snapshot saved: %d vectors to %s", len(idx.chunks), path)
	return nil
}

// LoadSnapshot restores the index from path. The chunks slice supplies
// chunk metadata; every vector in the snapshot must match a chunk by ID
// and content hash and every chunk must have a vector, otherwise the
// snapshot is stale and ErrCorruptIndex is returned so the caller
// rebuilds. The content check catches documents edited in place, which
// keep their deterministic chunk IDs but invalidate the embeddings.
func (idx *Index) LoadSnapshot(path string, chunks []domain.Chunk) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	if len(data) < len(snapshotMagic)+1+8+sha256.Size {
		return fmt.Errorf("snapshot too short: %w", domain.ErrCorruptIndex)
	}

	body, sum := data[:len(data)-sha256.Size], data[len(data)-sha256.Size:]
	if sha256.Sum256(body) != [sha256.Size]byte(sum) {
		return fmt.Errorf("snapshot checksum mismatch: %w", domain.ErrCorruptIndex)
	}

	r := bytes.NewReader(body)
	magic := make([]byte, len(snapshotMagic))
	r.Read(magic)
	if string(magic) != snapshotMagic {
		return fmt.Errorf("bad snapshot magic: %w", domain.ErrCorruptIndex)
	}
	version, _ := r.ReadByte()
	if version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d: %w", version, domain.ErrCorruptIndex)
	}

	var dims, count uint32
	binary.Read(r, binary.LittleEndian, &dims)
	binary.Read(r, binary.LittleEndian, &count)

	byID := make(map[string]domain.Chunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}
	if int(count) != len(chunks) {
		return fmt.Errorf("snapshot holds %d vectors for %d chunks: %w", count, len(chunks), domain.ErrCorruptIndex)
	}

	restored := make([]domain.Chunk, 0, count)
	vectors := make([][]float32, 0, count)
	vecBuf := make([]byte, int(dims)*4)

	for range count {
		var idLen uint16
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			return fmt.Errorf("truncated snapshot entry: %w", domain.ErrCorruptIndex)
		}
		id := make([]byte, idLen)
		if _, err := r.Read(id); err != nil {
			return fmt.Errorf("truncated snapshot entry: %w", domain.ErrCorruptIndex)
		}
		var contentSum [sha256.Size]byte
		if n, err := r.Read(contentSum[:]); err != nil || n != sha256.Size {
			return fmt.Errorf("truncated snapshot entry: %w", domain.ErrCorruptIndex)
		}
		if n, err := r.Read(vecBuf); err != nil || n != len(vecBuf) {
			return fmt.Errorf("truncated snapshot vector: %w", domain.ErrCorruptIndex)
		}

		chunk, ok := byID[string(id)]
		if !ok {
			return fmt.Errorf("snapshot chunk %q not in corpus: %w", id, domain.ErrCorruptIndex)
		}
		if sha256.Sum256([]byte(chunk.Content)) != contentSum {
			return fmt.Errorf("snapshot chunk %q content changed: %w", id, domain.ErrCorruptIndex)
		}
		restored = append(restored, chunk)
		vectors = append(vectors, bytesToFloat32Slice(vecBuf))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = restored
	idx.vectors = vectors

	logger.Debug("Vector snapshot loaded: %d vectors from %s", count, path)
	return nil
}

func float32SliceToBytes(floats []float32) []byte {
	out := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func bytesToFloat32Slice(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

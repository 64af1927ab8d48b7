package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// Binary codec errors.
var (
	ErrInvalidMeshMagic       = errors.New("invalid mesh magic: expected 'MSHB'")
	ErrUnsupportedMeshVersion = errors.New("unsupported mesh version")
	ErrTruncatedMesh          = errors.New("truncated mesh data")
	ErrInvalidVisMagic        = errors.New("invalid visibility magic: expected 'VISB'")
	ErrUnsupportedVisVersion  = errors.New("unsupported visibility version")
	ErrTruncatedVis           = errors.New("truncated visibility data")
)

const (
	meshMagic = "MSHB"
	visMagic  = "VISB"
	binVer    = 1
)

type reader struct {
	data []byte
	off  int
}

func (r *reader) bytes(n int) ([]byte, bool) {
	if r.off+n > len(r.data) {
		return nil, false
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, true
}

func (r *reader) u32() (uint32, bool) {
	b, ok := r.bytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (r *reader) f64() (float64, bool) {
	b, ok := r.bytes(8)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), true
}

// Decode parses a binary mesh from a byte slice.
func Decode(data []byte) (*Mesh, error) {
	if len(data) < 5 {
		return nil, ErrTruncatedMesh
	}
	if string(data[:4]) != meshMagic {
		return nil, ErrInvalidMeshMagic
	}
	if data[4] != binVer {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMeshVersion, data[4])
	}

	r := &reader{data: data, off: 5}

	nPts, ok := r.u32()
	if !ok {
		return nil, ErrTruncatedMesh
	}
	m := &Mesh{Points: make([]geom.Vec3, nPts)}
	for i := range m.Points {
		for k := 0; k < 3; k++ {
			v, ok := r.f64()
			if !ok {
				return nil, ErrTruncatedMesh
			}
			m.Points[i][k] = v
		}
	}

	nTris, ok := r.u32()
	if !ok {
		return nil, ErrTruncatedMesh
	}
	m.Tris = make([][3]int, nTris)
	for i := range m.Tris {
		for k := 0; k < 3; k++ {
			v, ok := r.u32()
			if !ok {
				return nil, ErrTruncatedMesh
			}
			m.Tris[i][k] = int(v)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes the mesh to its binary form.
func (m *Mesh) Encode() []byte {
	size := 5 + 4 + len(m.Points)*24 + 4 + len(m.Tris)*12
	buf := make([]byte, 0, size)
	buf = append(buf, meshMagic...)
	buf = append(buf, binVer)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Points)))
	for _, p := range m.Points {
		for k := 0; k < 3; k++ {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p[k]))
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Tris)))
	for _, t := range m.Tris {
		for k := 0; k < 3; k++ {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(t[k]))
		}
	}
	return buf
}

// Load reads a binary mesh file from disk.
func Load(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("mesh: parse %s: %w", path, err)
	}
	return m, nil
}

// Save writes the mesh to disk in its binary form.
func (m *Mesh) Save(path string) error {
	if err := os.WriteFile(path, m.Encode(), 0644); err != nil {
		return fmt.Errorf("mesh: write %s: %w", path, err)
	}
	return nil
}

// DecodeVisibility parses a binary per-point visibility table.
func DecodeVisibility(data []byte) (PointVisibility, error) {
	if len(data) < 5 {
		return nil, ErrTruncatedVis
	}
	if string(data[:4]) != visMagic {
		return nil, ErrInvalidVisMagic
	}
	if data[4] != binVer {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVisVersion, data[4])
	}

	r := &reader{data: data, off: 5}

	nPts, ok := r.u32()
	if !ok {
		return nil, ErrTruncatedVis
	}
	vis := make(PointVisibility, nPts)
	for i := range vis {
		nCams, ok := r.u32()
		if !ok {
			return nil, ErrTruncatedVis
		}
		if nCams == 0 {
			continue
		}
		cams := make([]int, nCams)
		for k := range cams {
			v, ok := r.u32()
			if !ok {
				return nil, ErrTruncatedVis
			}
			cams[k] = int(v)
		}
		vis[i] = cams
	}
	return vis, nil
}

// EncodeVisibility serializes a visibility table to its binary form.
func EncodeVisibility(vis PointVisibility) []byte {
	size := 5 + 4
	for _, cams := range vis {
		size += 4 + len(cams)*4
	}
	buf := make([]byte, 0, size)
	buf = append(buf, visMagic...)
	buf = append(buf, binVer)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(vis)))
	for _, cams := range vis {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(cams)))
		for _, c := range cams {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(c))
		}
	}
	return buf
}

// LoadVisibility reads a binary visibility file from disk.
func LoadVisibility(path string) (PointVisibility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("visibility: read %s: %w", path, err)
	}
	vis, err := DecodeVisibility(data)
	if err != nil {
		return nil, fmt.Errorf("visibility: parse %s: %w", path, err)
	}
	return vis, nil
}

// SaveVisibility writes the visibility table to disk.
func SaveVisibility(vis PointVisibility, path string) error {
	if err := os.WriteFile(path, EncodeVisibility(vis), 0644); err != nil {
		return fmt.Errorf("visibility: write %s: %w", path, err)
	}
	return nil
}

package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// Parse reads an OBJ model from r. Only the elements needed downstream are
// kept: positions, texture coordinates, normals, triangulated faces, material
// assignments and the mtllib reference. Unknown statements are skipped.
func Parse(r io.Reader) (*Model, error) {
	m := &Model{}
	matIndex := map[string]int{}
	curMat := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.Positions = append(m.Positions, p)
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.UVs = append(m.UVs, uv)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.Normals = append(m.Normals, n)
		case "f":
			if err := m.parseFace(fields[1:], curMat); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			name := fields[1]
			id, ok := matIndex[name]
			if !ok {
				id = len(m.Materials)
				matIndex[name] = id
				m.Materials = append(m.Materials, name)
			}
			curMat = id
		case "mtllib":
			if len(fields) >= 2 {
				m.MtlLib = fields[1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFile parses the OBJ model stored at path.
func ParseFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseVec3(fields []string) (geom.Vec3, error) {
	var v geom.Vec3
	if len(fields) < 3 {
		return v, ErrMalformedVertex
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, ErrMalformedVertex
		}
		v[i] = f
	}
	return v, nil
}

func parseVec2(fields []string) (geom.Vec2, error) {
	var v geom.Vec2
	if len(fields) < 2 {
		return v, ErrMalformedVertex
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, ErrMalformedVertex
		}
		v[i] = f
	}
	return v, nil
}

// corner is one "v", "v/vt", "v//vn" or "v/vt/vn" face token resolved to
// 0-based indices, -1 for absent components.
type corner struct {
	v, t, n int
}

func (m *Model) parseFace(tokens []string, mat int) error {
	if len(tokens) < 3 {
		return ErrMalformedFace
	}
	corners := make([]corner, len(tokens))
	for i, tok := range tokens {
		c, err := m.parseCorner(tok)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	// Fan triangulation around the first corner.
	for i := 2; i < len(corners); i++ {
		a, b, c := corners[0], corners[i-1], corners[i]
		m.Faces = append(m.Faces, Face{
			V:        [3]int{a.v, b.v, c.v},
			T:        [3]int{a.t, b.t, c.t},
			N:        [3]int{a.n, b.n, c.n},
			Material: mat,
		})
	}
	return nil
}

func (m *Model) parseCorner(tok string) (corner, error) {
	c := corner{v: -1, t: -1, n: -1}
	parts := strings.Split(tok, "/")
	if len(parts) == 0 || len(parts) > 3 {
		return c, ErrMalformedFace
	}
	var err error
	if c.v, err = resolveIndex(parts[0], len(m.Positions)); err != nil {
		return c, err
	}
	if len(parts) >= 2 && parts[1] != "" {
		if c.t, err = resolveIndex(parts[1], len(m.UVs)); err != nil {
			return c, err
		}
	}
	if len(parts) == 3 && parts[2] != "" {
		if c.n, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
			return c, err
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based OBJ index (negative meaning relative to the
// end of the pool) into a 0-based one.
func resolveIndex(s string, n int) (int, error) {
	if s == "" {
		return -1, ErrMalformedFace
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx == 0 {
		return -1, ErrMalformedFace
	}
	if idx < 0 {
		idx = n + idx
	} else {
		idx--
	}
	if idx < 0 || idx >= n {
		return -1, ErrIndexOutOfRange
	}
	return idx, nil
}

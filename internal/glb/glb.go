// Package glb reads mesh names and base colors from glTF models.
package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

// Kinds reported by Sniff.
const (
	KindGLB     = "GLB"
	KindGLTF    = "GLTF"
	KindUnknown = "UNKNOWN"
)

const (
	magic      = "glTF"
	chunkJSON  = 0x4E4F534A
	headerSize = 12
)

var (
	// ErrNotGLB is returned when a binary container is malformed.
	ErrNotGLB = errors.New("not a glb container")

	// ErrNoScene is returned when the document has no nodes to traverse.
	ErrNoScene = errors.New("model has no scene")
)

// Sniff reads the file header and reports its kind.
func Sniff(path string) (kind string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var hdr [4]byte
	n, err := io.ReadFull(f, hdr[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}

	return sniffBytes(hdr[:n]), nil
}

// sniffBytes classifies a header prefix.
func sniffBytes(b []byte) string {
	if bytes.HasPrefix(b, []byte(magic)) {
		return KindGLB
	}

	trimmed := bytes.TrimLeft(b, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return KindGLTF
	}

	return KindUnknown
}

// document is the subset of the glTF JSON the reader needs.
type document struct {
	Scene  *int `json:"scene"`
	Scenes []struct {
		Nodes []int `json:"nodes"`
	} `json:"scenes"`
	Nodes []struct {
		Name     string `json:"name"`
		Mesh     *int   `json:"mesh"`
		Children []int  `json:"children"`
	} `json:"nodes"`
	Meshes []struct {
		Name       string `json:"name"`
		Primitives []struct {
			Material *int `json:"material"`
		} `json:"primitives"`
	} `json:"meshes"`
	Materials []struct {
		PBR *struct {
			BaseColorFactor []float64 `json:"baseColorFactor"`
		} `json:"pbrMetallicRoughness"`
	} `json:"materials"`
}

// ReadFile reads the meshes of a .glb or .gltf file.
func ReadFile(path string) ([]parts.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meshes, err := ReadMeshes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return meshes, nil
}

// ReadMeshes returns every node with a mesh in traversal order (scene roots, depth first)
// with the base color of its first primitive's material. A missing color is white.
func ReadMeshes(r io.Reader) ([]parts.Mesh, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var jsonChunk []byte
	switch sniffBytes(raw) {
	case KindGLB:
		jsonChunk, err = jsonChunkOf(raw)
		if err != nil {
			return nil, err
		}
	case KindGLTF:
		jsonChunk = raw
	default:
		return nil, fmt.Errorf("unknown model format")
	}

	var doc document
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("decode gltf json: %w", err)
	}

	return doc.meshes()
}

// jsonChunkOf extracts the first chunk of a binary container, which must be JSON.
func jsonChunkOf(raw []byte) ([]byte, error) {
	if len(raw) < headerSize+8 {
		return nil, fmt.Errorf("%w: short header", ErrNotGLB)
	}

	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != 2 {
		return nil, fmt.Errorf("%w: version %d", ErrNotGLB, version)
	}

	total := binary.LittleEndian.Uint32(raw[8:12])
	if int(total) > len(raw) {
		return nil, fmt.Errorf("%w: length %d > %d", ErrNotGLB, total, len(raw))
	}

	size := binary.LittleEndian.Uint32(raw[12:16])
	typ := binary.LittleEndian.Uint32(raw[16:20])
	if typ != chunkJSON {
		return nil, fmt.Errorf("%w: first chunk is not JSON", ErrNotGLB)
	}

	end := headerSize + 8 + int(size)
	if end > len(raw) {
		return nil, fmt.Errorf("%w: chunk overruns file", ErrNotGLB)
	}

	return raw[headerSize+8 : end], nil
}

// meshes walks the scene graph.
func (d *document) meshes() ([]parts.Mesh, error) {
	roots := d.roots()
	if len(roots) == 0 {
		return nil, ErrNoScene
	}

	var out []parts.Mesh
	visited := make([]bool, len(d.Nodes))

	var walk func(i int)
	walk = func(i int) {
		if i < 0 || i >= len(d.Nodes) || visited[i] {
			return
		}
		visited[i] = true

		n := d.Nodes[i]
		if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(d.Meshes) {
			name := n.Name
			if name == "" {
				name = d.Meshes[*n.Mesh].Name
			}
			if name != "" {
				out = append(out, parts.Mesh{Name: name, Base: d.baseColor(*n.Mesh)})
			}
		}

		for _, c := range n.Children {
			walk(c)
		}
	}

	for _, r := range roots {
		walk(r)
	}

	return out, nil
}

// roots returns the root nodes of the default scene, or every parentless node.
func (d *document) roots() []int {
	scene := 0
	if d.Scene != nil {
		scene = *d.Scene
	}
	if scene >= 0 && scene < len(d.Scenes) {
		return d.Scenes[scene].Nodes
	}

	child := make([]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}

	var out []int
	for i, isChild := range child {
		if !isChild {
			out = append(out, i)
		}
	}

	return out
}

// baseColor returns the base color of a mesh's first primitive.
func (d *document) baseColor(mesh int) palette.Color {
	prims := d.Meshes[mesh].Primitives
	if len(prims) == 0 || prims[0].Material == nil {
		return palette.White
	}

	m := *prims[0].Material
	if m < 0 || m >= len(d.Materials) {
		return palette.White
	}

	pbr := d.Materials[m].PBR
	if pbr == nil || len(pbr.BaseColorFactor) < 3 {
		return palette.White
	}

	f := pbr.BaseColorFactor
	return palette.FromFloat(f[0], f[1], f[2])
}

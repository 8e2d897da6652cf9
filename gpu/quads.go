//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontatlas"
)

// vertexStride is the size of one GlyphVertex in bytes.
const vertexStride = 16

// GlyphQuad is a screen-space rectangle with its atlas UV rectangle.
type GlyphQuad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// GlyphVertex matches VertexInput in glyph.wgsl.
type GlyphVertex struct {
	X, Y float32
	U, V float32
}

// QuadForGlyph places g with its pen position at (x, y) on the baseline,
// Y growing downward. UVs come from the glyph texture rectangle.
func QuadForGlyph(g fontatlas.Glyph, x, y float32) GlyphQuad {
	x0 := x + float32(g.Bearing.X)
	y0 := y - float32(g.Bearing.Y)
	return GlyphQuad{
		X0: x0,
		Y0: y0,
		X1: x0 + float32(g.Size.X),
		Y1: y0 + float32(g.Size.Y),
		U0: g.Tex.Left,
		V0: g.Tex.Top,
		U1: g.Tex.Right,
		V1: g.Tex.Bottom,
	}
}

// LayoutString lays out s left to right from (x, y) using the glyphs of one
// page. Runes without a glyph are skipped without advancing. Glyphs with an
// empty bitmap advance the pen but produce no quad.
func LayoutString(glyphs map[rune]fontatlas.Glyph, s string, x, y float32) []GlyphQuad {
	quads := make([]GlyphQuad, 0, len(s))
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		if g.Size.X > 0 && g.Size.Y > 0 {
			quads = append(quads, QuadForGlyph(g, x, y))
		}
		x += g.Advance
	}
	return quads
}

// Vertices expands quads to four vertices each, in the order
// top-left, top-right, bottom-right, bottom-left.
func Vertices(quads []GlyphQuad) []GlyphVertex {
	vertices := make([]GlyphVertex, len(quads)*4)
	for i, q := range quads {
		base := i * 4
		vertices[base+0] = GlyphVertex{X: q.X0, Y: q.Y0, U: q.U0, V: q.V0}
		vertices[base+1] = GlyphVertex{X: q.X1, Y: q.Y0, U: q.U1, V: q.V0}
		vertices[base+2] = GlyphVertex{X: q.X1, Y: q.Y1, U: q.U1, V: q.V1}
		vertices[base+3] = GlyphVertex{X: q.X0, Y: q.Y1, U: q.U0, V: q.V1}
	}
	return vertices
}

// VertexData serializes quads into little-endian vertex bytes.
func VertexData(quads []GlyphQuad) []byte {
	if len(quads) == 0 {
		return nil
	}
	vertices := Vertices(quads)
	data := make([]byte, len(vertices)*vertexStride)
	for i, v := range vertices {
		buf := data[i*vertexStride:]
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.U))
		binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.V))
	}
	return data
}

// QuadIndices returns two triangles per quad: 0,1,2 and 2,3,0.
func QuadIndices(numQuads int) []uint16 {
	indices := make([]uint16, numQuads*6)
	for i := 0; i < numQuads; i++ {
		base := i * 6
		vertex := uint16(i * 4) //nolint:gosec // callers batch at most 16384 quads
		indices[base+0] = vertex + 0
		indices[base+1] = vertex + 1
		indices[base+2] = vertex + 2
		indices[base+3] = vertex + 2
		indices[base+4] = vertex + 3
		indices[base+5] = vertex + 0
	}
	return indices
}

// IndexData serializes QuadIndices into little-endian bytes.
func IndexData(numQuads int) []byte {
	indices := QuadIndices(numQuads)
	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	return data
}

// VertexLayout returns the vertex buffer layout matching glyph.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: uv (vec2<f32>)
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}

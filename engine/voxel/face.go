package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type FaceType int32

const (
	Top    FaceType = iota // +Y
	Bottom                 // -Y
	Right                  // +X
	Left                   // -X
	Back                   // +Z
	Front                  // -Z
)

const FaceCount = 6

func (f FaceType) Valid() bool {
	return f >= Top && f <= Front
}

func (f FaceType) String() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Left:
		return "left"
	case Back:
		return "back"
	case Front:
		return "front"
	}
	return "invalid"
}

// Direction returns the grid offset of the neighbour this face looks at.
func (f FaceType) Direction() Int3 {
	switch f {
	case Top:
		return Int3{0, 1, 0}
	case Bottom:
		return Int3{0, -1, 0}
	case Right:
		return Int3{1, 0, 0}
	case Left:
		return Int3{-1, 0, 0}
	case Back:
		return Int3{0, 0, 1}
	case Front:
		return Int3{0, 0, -1}
	}
	panic(errors.Errorf("invalid face %d", int32(f)))
}

func (f FaceType) Normal() mgl32.Vec3 {
	return f.Direction().ToVec3()
}

func (f FaceType) Opposite() FaceType {
	// faces come in +/- pairs
	return f ^ 1
}

type faceTemplate struct {
	positions [4]mgl32.Vec3
	normal    mgl32.Vec3
	indices   [6]uint32
}

var faceUVs = [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// faceTemplates is indexed by FaceType. Every triangle is counter-clockwise
// when seen from outside the cube.
var faceTemplates = [FaceCount]faceTemplate{
	Top: {
		positions: [4]mgl32.Vec3{{-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
		normal:    mgl32.Vec3{0, 1, 0},
		indices:   [6]uint32{0, 3, 1, 1, 3, 2},
	},
	Bottom: {
		positions: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
		normal:    mgl32.Vec3{0, -1, 0},
		indices:   [6]uint32{0, 1, 3, 1, 2, 3},
	},
	Right: {
		positions: [4]mgl32.Vec3{{0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}},
		normal:    mgl32.Vec3{1, 0, 0},
		indices:   [6]uint32{0, 3, 1, 1, 3, 2},
	},
	Left: {
		positions: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
		normal:    mgl32.Vec3{-1, 0, 0},
		indices:   [6]uint32{0, 1, 3, 1, 2, 3},
	},
	Back: {
		positions: [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}},
		normal:    mgl32.Vec3{0, 0, 1},
		indices:   [6]uint32{0, 3, 1, 1, 3, 2},
	},
	Front: {
		positions: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}},
		normal:    mgl32.Vec3{0, 0, -1},
		indices:   [6]uint32{0, 1, 3, 1, 2, 3},
	},
}

// FaceSet is a bit set over the six faces of a cube.
type FaceSet uint8

const AllFaces FaceSet = 1<<FaceCount - 1

// NewFaceSet panics on a face outside the six known ones.
func NewFaceSet(faces ...FaceType) FaceSet {
	var s FaceSet
	for _, f := range faces {
		if !f.Valid() {
			panic(errors.Errorf("invalid face index %d, must be in 0..%d", int32(f), FaceCount-1))
		}
		s |= 1 << uint(f)
	}
	return s
}

// ParseFaceSet is the checked entry point for raw face indices, such as the
// face list of the fixed policy in the settings file.
func ParseFaceSet(indices ...int) (FaceSet, error) {
	var s FaceSet
	for _, i := range indices {
		if i < 0 || i >= FaceCount {
			return 0, errors.Errorf("invalid face index %d, must be in 0..%d", i, FaceCount-1)
		}
		s |= 1 << uint(i)
	}
	return s, nil
}

func (s FaceSet) Has(f FaceType) bool {
	return f.Valid() && s&(1<<uint(f)) != 0
}

func (s FaceSet) With(f FaceType) FaceSet {
	return s | NewFaceSet(f)
}

func (s FaceSet) Without(f FaceType) FaceSet {
	return s &^ NewFaceSet(f)
}

func (s FaceSet) Len() int {
	n := 0
	for f := Top; f <= Front; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Faces lists the members in template order.
func (s FaceSet) Faces() []FaceType {
	result := make([]FaceType, 0, FaceCount)
	for f := Top; f <= Front; f++ {
		if s.Has(f) {
			result = append(result, f)
		}
	}
	return result
}

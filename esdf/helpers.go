package esdf

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/robotics-upo/esdf3d/neighborhood"
	"github.com/robotics-upo/esdf3d/voxel"
)

// math32Abs is a float32-preserving absolute value, used throughout the
// raise/lower comparisons below since voxel.EsdfVoxel.Distance carries
// its sign to mean "behind a surface", while every distance comparison
// in the original integrators compares magnitudes.
func math32Abs(f float32) float32 { return math32.Abs(f) }

// scaleDistances multiplies every unscaled (voxel_size = 1) distance in
// d by voxelSize, returning a new slice.
func scaleDistances(d []float32, voxelSize float32) []float32 {
	out := make([]float32, len(d))
	for i, v := range d {
		out[i] = v * voxelSize
	}
	return out
}

// neighborsFull returns the full neighborhood of g under connectivity c.
func neighborsFull(c neighborhood.Connectivity, g voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	return neighborhood.Neighbors(c, g)
}

// neighborsToward returns the half-neighborhood of g facing away from
// coc, under connectivity c.
func neighborsToward(c neighborhood.Connectivity, g, coc voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	return neighborhood.NeighborsToward(c, g, coc)
}

// scaleVec returns v scaled by s. ms3 ships Scale as a free function in
// some versions and a method in others; spelling it out here avoids
// depending on which.
func scaleVec(v ms3.Vec, s float32) ms3.Vec {
	return ms3.Vec{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func addVec(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func subVec(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

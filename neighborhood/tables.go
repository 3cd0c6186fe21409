package neighborhood

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/robotics-upo/esdf3d/voxel"
)

// Connectivity selects how many neighbors a voxel has.
type Connectivity int

const (
	Six        Connectivity = 6
	Eighteen   Connectivity = 18
	TwentyFour Connectivity = 24
	TwentySix  Connectivity = 26
)

// Valid reports whether c is one of the four supported connectivities.
func (c Connectivity) Valid() bool {
	switch c {
	case Six, Eighteen, TwentyFour, TwentySix:
		return true
	default:
		return false
	}
}

// Offsets26 lists every face, edge and corner neighbor step exactly
// once: indices 0-5 are the 6 face steps (±1 along a single axis),
// 6-17 are the 12 edge steps (±1 along two axes), and 18-25 are the 8
// corner steps (±1 along all three axes). The Six, Eighteen and
// TwentyFour connectivities select entries of this same table through
// includes below, not from independently maintained data, so the
// connectivities can never drift apart.
var Offsets26 = [26]voxel.GlobalIndex{
	{X: -1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0}, {X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: -1}, {X: 0, Y: 0, Z: 1},

	{X: -1, Y: -1, Z: 0}, {X: -1, Y: 1, Z: 0},
	{X: 1, Y: -1, Z: 0}, {X: 1, Y: 1, Z: 0},
	{X: -1, Y: 0, Z: -1}, {X: -1, Y: 0, Z: 1},
	{X: 1, Y: 0, Z: -1}, {X: 1, Y: 0, Z: 1},
	{X: 0, Y: -1, Z: -1}, {X: 0, Y: -1, Z: 1},
	{X: 0, Y: 1, Z: -1}, {X: 0, Y: 1, Z: 1},

	{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
	{X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1},
}

var sqrt2 = math32.Sqrt(2)
var sqrt3 = math32.Sqrt(3)

// Distances26 holds the unscaled (voxel_size = 1) Euclidean step length
// for each entry of Offsets26: 1 for faces, √2 for edges, √3 for
// corners. Callers multiply by the volume's voxel size.
var Distances26 = [26]float32{
	1, 1, 1, 1, 1, 1,
	sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2, sqrt2,
	sqrt3, sqrt3, sqrt3, sqrt3, sqrt3, sqrt3, sqrt3, sqrt3,
}

// includes reports whether offset index i (into Offsets26/Distances26)
// belongs to the given connectivity. Six and Eighteen are prefixes of
// the 26-entry table; TwentyFour is the table with the two ±Z face
// entries (indices 4 and 5) removed, since the original FIESTA/Voxfield
// 24-neighborhood skips vertical face neighbors to favor a horizontally
// biased robot's sensing geometry.
func includes(c Connectivity, i int) bool {
	switch c {
	case Six:
		return i < 6
	case Eighteen:
		return i < 18
	case TwentyFour:
		return i != 4 && i != 5
	case TwentySix:
		return true
	default:
		return false
	}
}

// Neighbors returns the global indices and unscaled distances of every
// neighbor of g under connectivity c.
func Neighbors(c Connectivity, g voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	if !c.Valid() {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidConnectivity, c)
	}
	idx := make([]voxel.GlobalIndex, 0, int(c))
	dist := make([]float32, 0, int(c))
	for i := range Offsets26 {
		if !includes(c, i) {
			continue
		}
		idx = append(idx, g.Add(Offsets26[i]))
		dist = append(dist, Distances26[i])
	}
	return idx, dist, nil
}

// directionalIndices returns the subset of Offsets26 indices that lie on
// the side of g facing away from coc, along every axis where coc and g
// differ (axes where they are equal contribute both signs). A lowering
// wave radiating from coc only needs to move away from it, so
// propagation from g can visit this half (at most) of the full
// neighborhood instead of all 26 voxels.
func directionalIndices(g, coc voxel.GlobalIndex) []int {
	negX := coc.X >= g.X
	posX := coc.X <= g.X
	negY := coc.Y >= g.Y
	posY := coc.Y <= g.Y
	negZ := coc.Z >= g.Z
	posZ := coc.Z <= g.Z

	idx := make([]int, 0, 26)
	if negX {
		idx = append(idx, 0)
	}
	if posX {
		idx = append(idx, 1)
	}
	if negY {
		idx = append(idx, 2)
	}
	if posY {
		idx = append(idx, 3)
	}
	if negZ {
		idx = append(idx, 4)
	}
	if posZ {
		idx = append(idx, 5)
	}
	if negX && negY {
		idx = append(idx, 6)
	}
	if negX && posY {
		idx = append(idx, 7)
	}
	if posX && negY {
		idx = append(idx, 8)
	}
	if posX && posY {
		idx = append(idx, 9)
	}
	if negX && negZ {
		idx = append(idx, 10)
	}
	if negX && posZ {
		idx = append(idx, 11)
	}
	if posX && negZ {
		idx = append(idx, 12)
	}
	if posX && posZ {
		idx = append(idx, 13)
	}
	if negY && negZ {
		idx = append(idx, 14)
	}
	if negY && posZ {
		idx = append(idx, 15)
	}
	if posY && negZ {
		idx = append(idx, 16)
	}
	if posY && posZ {
		idx = append(idx, 17)
	}
	if negX && negY && negZ {
		idx = append(idx, 18)
	}
	if negX && negY && posZ {
		idx = append(idx, 19)
	}
	if negX && posY && negZ {
		idx = append(idx, 20)
	}
	if negX && posY && posZ {
		idx = append(idx, 21)
	}
	if posX && negY && negZ {
		idx = append(idx, 22)
	}
	if posX && negY && posZ {
		idx = append(idx, 23)
	}
	if posX && posY && negZ {
		idx = append(idx, 24)
	}
	if posX && posY && posZ {
		idx = append(idx, 25)
	}
	return idx
}

// NeighborsToward returns the global indices and unscaled distances of
// the neighbors of g, under connectivity c, that lie on the side facing
// away from coc (see directionalIndices). It is the pruned neighbor set
// the lowering BFS propagates into when the directional guide is
// enabled.
func NeighborsToward(c Connectivity, g, coc voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	if !c.Valid() {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidConnectivity, c)
	}
	var idxOut []voxel.GlobalIndex
	var distOut []float32
	for _, i := range directionalIndices(g, coc) {
		if !includes(c, i) {
			continue
		}
		idxOut = append(idxOut, g.Add(Offsets26[i]))
		distOut = append(distOut, Distances26[i])
	}
	return idxOut, distOut, nil
}

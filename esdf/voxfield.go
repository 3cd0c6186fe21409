package esdf

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/robotics-upo/esdf3d/dependentlist"
	"github.com/robotics-upo/esdf3d/voxel"
)

// voxfieldEpsilon gates the sub-voxel gradient correction: a gradient
// shorter than this is treated as unavailable/noise rather than a real
// surface normal.
const voxfieldEpsilon float32 = 1e-6

// VoxfieldEngine computes an incremental ESDF from a TSDF volume. It
// reuses FIESTA's dependent-list invalidation for the raise/lower BFS,
// but additionally corrects each settled distance using the local TSDF
// gradient at the voxel's closest-obstacle voxel, recovering sub-voxel
// accuracy that a pure voxel-center-to-voxel-center distance misses.
type VoxfieldEngine struct {
	*core
	tsdf *voxel.Volume[voxel.TsdfVoxel]
}

// NewVoxfieldEngine constructs a VoxfieldEngine over the given TSDF and
// ESDF volumes, which must share voxel layout.
func NewVoxfieldEngine(tsdf *voxel.Volume[voxel.TsdfVoxel], esdfVol *voxel.Volume[voxel.EsdfVoxel], cfg Config) (*VoxfieldEngine, error) {
	if tsdf.VoxelsPerSide() != esdfVol.VoxelsPerSide() {
		return nil, ErrVoxelsPerSideMismatch
	}
	if tsdf.VoxelSize() != esdfVol.VoxelSize() {
		return nil, ErrVoxelSizeMismatch
	}
	c, err := newCore(esdfVol, cfg)
	if err != nil {
		return nil, err
	}
	return &VoxfieldEngine{core: c, tsdf: tsdf}, nil
}

// isOccupied classifies a TSDF reading as occupied/obstacle. The sign
// test alone (distance < 0, i.e. behind the observed surface) is used
// regardless of FinerEsdfOn: FinerEsdfOn instead governs whether the
// gradient is later used to sub-voxel-correct the settled ESDF distance
// (see correctDistance), not whether a voxel is classified as occupied
// in the first place.
func isOccupied(distance float32) bool { return distance < 0 }

// isFixed reports whether distance falls inside the TSDF's own fixed
// truncation band, where the ESDF can just copy the TSDF value directly
// instead of waiting for BFS propagation.
func (e *VoxfieldEngine) isFixed(distance float32) bool {
	return math32Abs(distance) <= e.cfg.BandDistanceM
}

// UpdateFromTsdf classifies every observed voxel in tsdfBlocks,
// deriving this tick's insert/delete lists from the occupancy
// transitions it observes (unlike Fiesta/Edt, Voxfield does not expect
// the caller to have already loaded them), then runs a full incremental
// update tick.
func (e *VoxfieldEngine) UpdateFromTsdf(tsdfBlocks []voxel.BlockIndex) error {
	var insertList, deleteList []voxel.GlobalIndex

	for _, bIdx := range tsdfBlocks {
		tsdfBlock, ok := e.tsdf.GetBlock(bIdx)
		if !ok {
			continue
		}
		esdfBlock := e.esdf.EnsureBlock(bIdx)
		e.esdf.SetUpdatedAll(bIdx)

		n := tsdfBlock.NumVoxels()
		for lin := 0; lin < n; lin++ {
			tv := tsdfBlock.VoxelByLinear(lin)
			if !tv.Observed {
				continue
			}
			ev := esdfBlock.VoxelByLinear(lin)
			ev.Behind = tv.Distance < 0

			currentOccupied := isOccupied(tv.Distance)

			if !ev.Observed {
				ev.Observed = true
				ev.Newly = true
				ev.SelfIdx = voxel.GlobalIndexFromLinear(bIdx, lin, e.esdf.VoxelsPerSide())
				ev.CocIdx = voxel.UndefIndex
				ev.PrevIdx = voxel.UndefIndex
				ev.NextIdx = voxel.UndefIndex
				ev.HeadIdx = voxel.UndefIndex
				if ev.Behind {
					ev.RawDistance = -e.cfg.MaxBehindSurfaceM
				} else {
					ev.RawDistance = e.cfg.DefaultDistanceM
				}
				if currentOccupied {
					insertList = append(insertList, ev.SelfIdx)
				}
			} else {
				ev.Newly = false
				if tv.Occupied && !currentOccupied {
					deleteList = append(deleteList, ev.SelfIdx)
				} else if !tv.Occupied && currentOccupied {
					insertList = append(insertList, ev.SelfIdx)
				}
			}
			tv.Occupied = currentOccupied

			if e.cfg.FixedBandEsdfOn && e.isFixed(tv.Distance) {
				ev.Distance = tv.Distance
				ev.RawDistance = tv.Distance
				ev.Fixed = true
			} else {
				ev.Fixed = false
			}
		}
	}

	e.insertList = insertList
	e.deleteList = deleteList

	if err := e.prepareRange(); err != nil {
		return err
	}
	if e.cfg.AllocateTsdfInRange {
		e.tracker.AllocateBlocks(tsdfAllocator{e.tsdf})
	}
	return e.updateESDF()
}

// tsdfAllocator adapts *voxel.Volume[voxel.TsdfVoxel] to
// rangetracker.BlockAllocator so VoxfieldEngine can eagerly allocate
// TSDF blocks across the padded local range alongside ESDF blocks.
type tsdfAllocator struct {
	vol *voxel.Volume[voxel.TsdfVoxel]
}

func (a tsdfAllocator) AllocateBlockIndex(bIdx voxel.BlockIndex) { a.vol.AllocateBlockIndex(bIdx) }
func (a tsdfAllocator) SetUpdatedAll(bIdx voxel.BlockIndex)      { a.vol.SetUpdatedAll(bIdx) }
func (a tsdfAllocator) VoxelsPerSide() int32                     { return a.vol.VoxelsPerSide() }

func (e *VoxfieldEngine) updateESDF() error {
	if err := e.seedInsertions(); err != nil {
		return err
	}
	if err := e.raiseDeletions(); err != nil {
		return err
	}
	processed, err := e.lowerBFS()
	if err != nil {
		return err
	}
	e.logTick("voxfield", processed)
	return nil
}

func (e *VoxfieldEngine) seedInsertions() error {
	for _, idx := range e.insertList {
		cur, ok := e.esdf.VoxelAt(idx)
		if !ok {
			return fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, idx)
		}
		if !cur.CocIdx.IsUndef() {
			coc, ok := e.esdf.VoxelAt(cur.CocIdx)
			if !ok {
				return fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, cur.CocIdx)
			}
			if err := dependentlist.Delete(e.core, coc, cur); err != nil {
				return err
			}
		}
		cur.RawDistance = 0
		cur.CocIdx = idx
		if err := dependentlist.Insert(e.core, cur, cur); err != nil {
			return err
		}
		e.queue.Push(idx, 0)
	}
	return nil
}

func (e *VoxfieldEngine) raiseDeletions() error {
	for _, idx := range e.deleteList {
		seed, ok := e.esdf.VoxelAt(idx)
		if !ok {
			return fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, idx)
		}
		deps, err := dependentlist.Dependents(e.core, seed)
		if err != nil {
			return err
		}
		for _, cur := range deps {
			cur.CocIdx = voxel.UndefIndex
			cur.PrevIdx = voxel.UndefIndex
			cur.NextIdx = voxel.UndefIndex

			if !e.voxInRange(cur.SelfIdx) {
				continue
			}
			cur.RawDistance = e.cfg.DefaultDistanceM

			nbrs, _, err := neighborsFull(e.conn, cur.SelfIdx)
			if err != nil {
				return err
			}
			for _, nbrIdx := range nbrs {
				if !e.voxInRange(nbrIdx) {
					continue
				}
				nbr, ok := e.esdf.VoxelAt(nbrIdx)
				if !ok || !nbr.Observed || nbr.CocIdx.IsUndef() {
					continue
				}
				cocTsdf, ok := e.tsdf.VoxelAt(nbr.CocIdx)
				if !ok || !cocTsdf.Occupied {
					continue
				}
				d := e.dist(nbr.CocIdx, cur.SelfIdx)
				if d < math32Abs(cur.RawDistance) {
					cur.RawDistance = d
					cur.CocIdx = nbr.CocIdx
				}
				if e.cfg.EarlyBreak {
					cur.Newly = true
					break
				}
			}
		}
		seed.HeadIdx = voxel.UndefIndex

		for _, cur := range deps {
			if cur.CocIdx.IsUndef() {
				continue
			}
			if cur.Behind {
				cur.RawDistance = -cur.RawDistance
			}
			e.queue.Push(cur.SelfIdx, cur.RawDistance)
			coc, ok := e.esdf.VoxelAt(cur.CocIdx)
			if !ok {
				return fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, cur.CocIdx)
			}
			if err := dependentlist.Insert(e.core, coc, cur); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *VoxfieldEngine) lowerBFS() (int, error) {
	processed := 0
	for {
		idx, ok := e.queue.Pop()
		if !ok {
			break
		}
		processed++
		cur, ok := e.esdf.VoxelAt(idx)
		if !ok {
			return processed, fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, idx)
		}

		if err := e.correctDistance(cur); err != nil {
			return processed, err
		}

		if e.cfg.PatchOn && cur.Newly {
			cur.Newly = false
			changed, err := e.patch(cur)
			if err != nil {
				return processed, err
			}
			if changed {
				continue
			}
		}

		nbrs, _, err := e.neighborsToward(idx, cur.CocIdx)
		if err != nil {
			return processed, err
		}
		for _, nbrIdx := range nbrs {
			if !e.voxInRange(nbrIdx) {
				continue
			}
			nbr, ok := e.esdf.VoxelAt(nbrIdx)
			if !ok || !nbr.Observed {
				continue
			}
			d := e.dist(cur.CocIdx, nbrIdx)
			if d < math32Abs(nbr.RawDistance) {
				if !nbr.CocIdx.IsUndef() {
					oldCoc, ok := e.esdf.VoxelAt(nbr.CocIdx)
					if ok {
						if err := dependentlist.Delete(e.core, oldCoc, nbr); err != nil {
							return processed, err
						}
					}
				}
				nbr.CocIdx = cur.CocIdx
				nbr.RawDistance = d
				if nbr.Behind {
					nbr.RawDistance = -d
				}
				newCoc, ok := e.esdf.VoxelAt(nbr.CocIdx)
				if !ok {
					return processed, fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, nbr.CocIdx)
				}
				if err := dependentlist.Insert(e.core, newCoc, nbr); err != nil {
					return processed, err
				}
				e.queue.Push(nbrIdx, nbr.RawDistance)
			}
		}
	}
	return processed, nil
}

func (e *VoxfieldEngine) neighborsToward(g, coc voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	if !e.cfg.DirectionGuide {
		idx, dist, err := neighborsFull(e.conn, g)
		if err != nil {
			return nil, nil, err
		}
		return idx, scaleDistances(dist, e.esdf.VoxelSize()), nil
	}
	idx, dist, err := neighborsToward(e.conn, g, coc)
	if err != nil {
		return nil, nil, err
	}
	return idx, scaleDistances(dist, e.esdf.VoxelSize()), nil
}

// correctDistance computes cur.Distance from cur.RawDistance, applying
// the TSDF-gradient sub-voxel correction when FinerEsdfOn is set, the
// voxel is outside the fixed band, and its coc's gradient is both
// available and still consistent with an occupied reading.
func (e *VoxfieldEngine) correctDistance(cur *voxel.EsdfVoxel) error {
	if cur.Fixed {
		return nil
	}
	if !e.cfg.FinerEsdfOn {
		cur.Distance = cur.RawDistance
		return nil
	}
	cocTsdf, ok := e.tsdf.VoxelAt(cur.CocIdx)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrMissingSourceVoxel, cur.CocIdx)
	}
	gradNorm := math32.Sqrt(cocTsdf.Gradient.X*cocTsdf.Gradient.X + cocTsdf.Gradient.Y*cocTsdf.Gradient.Y + cocTsdf.Gradient.Z*cocTsdf.Gradient.Z)
	if gradNorm <= voxfieldEpsilon || !cocTsdf.Occupied {
		cur.Distance = cur.RawDistance
		return nil
	}

	unit := scaleVec(cocTsdf.Gradient, 1/gradNorm)
	curCenter := cur.SelfIdx.Center(e.esdf.VoxelSize())
	cocCenter := cur.CocIdx.Center(e.esdf.VoxelSize())
	surface := addVec(cocCenter, scaleVec(unit, e.cfg.GradientSign*cocTsdf.Distance))

	diff := subVec(surface, curCenter)
	magnitude := math32.Sqrt(diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z)
	if cur.Behind {
		cur.Distance = -magnitude
	} else {
		cur.Distance = magnitude
	}
	return nil
}

// patch mirrors FiestaEngine.patch on RawDistance: it only relinks cur
// into a new coc's dependent list and re-pushes it when some neighbor
// actually improves on cur's current raw distance. When nothing
// improves it, the list and queue are left untouched so the caller can
// fall through to propagate cur using its existing coc.
func (e *VoxfieldEngine) patch(cur *voxel.EsdfVoxel) (bool, error) {
	nbrs, _, err := neighborsFull(e.conn, cur.SelfIdx)
	if err != nil {
		return false, err
	}
	origCoc := cur.CocIdx
	changed := false
	for _, nbrIdx := range nbrs {
		if !e.voxInRange(nbrIdx) {
			continue
		}
		nbr, ok := e.esdf.VoxelAt(nbrIdx)
		if !ok || !nbr.Observed || nbr.CocIdx.IsUndef() {
			continue
		}
		d := e.dist(nbr.CocIdx, cur.SelfIdx)
		if d < math32Abs(cur.RawDistance) {
			cur.CocIdx = nbr.CocIdx
			cur.RawDistance = d
			if cur.Behind {
				cur.RawDistance = -d
			}
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if !origCoc.IsUndef() {
		oldCoc, ok := e.esdf.VoxelAt(origCoc)
		if ok {
			if err := dependentlist.Delete(e.core, oldCoc, cur); err != nil {
				return false, err
			}
		}
	}
	newCoc, ok := e.esdf.VoxelAt(cur.CocIdx)
	if !ok {
		return false, fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, cur.CocIdx)
	}
	if err := dependentlist.Insert(e.core, newCoc, cur); err != nil {
		return false, err
	}
	e.queue.Push(cur.SelfIdx, cur.RawDistance)
	return true, nil
}

package esdf

import (
	"fmt"

	"github.com/robotics-upo/esdf3d/dependentlist"
	"github.com/robotics-upo/esdf3d/voxel"
)

// FiestaEngine computes an incremental ESDF from a binary occupancy
// volume using FIESTA's intrusive dependent-list invalidation: when a
// voxel's closest obstacle disappears, only the voxels linked to it
// through dependentlist are rescanned, instead of the whole map.
type FiestaEngine struct {
	*core
	occ *voxel.Volume[voxel.OccupancyVoxel]
}

// NewFiestaEngine constructs a FiestaEngine over the given occupancy and
// ESDF volumes, which must share voxel layout.
func NewFiestaEngine(occ *voxel.Volume[voxel.OccupancyVoxel], esdfVol *voxel.Volume[voxel.EsdfVoxel], cfg Config) (*FiestaEngine, error) {
	if occ.VoxelsPerSide() != esdfVol.VoxelsPerSide() {
		return nil, ErrVoxelsPerSideMismatch
	}
	if occ.VoxelSize() != esdfVol.VoxelSize() {
		return nil, ErrVoxelSizeMismatch
	}
	c, err := newCore(esdfVol, cfg)
	if err != nil {
		return nil, err
	}
	return &FiestaEngine{core: c, occ: occ}, nil
}

// neighbors returns the global indices and meter distances of the full
// neighborhood of g under the configured connectivity. DirectionGuide
// is not applied here; see neighborsToward.
func (e *FiestaEngine) neighbors(g voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	idx, dist, err := neighborsFull(e.conn, g)
	if err != nil {
		return nil, nil, err
	}
	return idx, scaleDistances(dist, e.esdf.VoxelSize()), nil
}

func (e *FiestaEngine) neighborsToward(g, coc voxel.GlobalIndex) ([]voxel.GlobalIndex, []float32, error) {
	if !e.cfg.DirectionGuide {
		return e.neighbors(g)
	}
	idx, dist, err := neighborsToward(e.conn, g, coc)
	if err != nil {
		return nil, nil, err
	}
	return idx, scaleDistances(dist, e.esdf.VoxelSize()), nil
}

// UpdateFromOccupancy classifies every observed voxel in occBlocks,
// initializing any voxel touched here for the first time, then runs a
// full incremental update tick against the insert/delete lists most
// recently loaded via LoadInsertList/LoadDeleteList.
func (e *FiestaEngine) UpdateFromOccupancy(occBlocks []voxel.BlockIndex) error {
	for _, bIdx := range occBlocks {
		occBlock, ok := e.occ.GetBlock(bIdx)
		if !ok {
			continue
		}
		esdfBlock := e.esdf.EnsureBlock(bIdx)
		e.esdf.SetUpdatedAll(bIdx)

		n := occBlock.NumVoxels()
		for lin := 0; lin < n; lin++ {
			ov := occBlock.VoxelByLinear(lin)
			if !ov.Observed {
				continue
			}
			ev := esdfBlock.VoxelByLinear(lin)
			ev.Behind = ov.Behind
			if !ev.Observed {
				ev.Observed = true
				ev.Newly = true
				ev.SelfIdx = voxel.GlobalIndexFromLinear(bIdx, lin, e.esdf.VoxelsPerSide())
				ev.CocIdx = voxel.UndefIndex
				ev.PrevIdx = voxel.UndefIndex
				ev.NextIdx = voxel.UndefIndex
				ev.HeadIdx = voxel.UndefIndex
				if ev.Behind {
					ev.Distance = -e.cfg.MaxBehindSurfaceM
				} else {
					ev.Distance = e.cfg.DefaultDistanceM
				}
			} else {
				ev.Newly = false
			}
		}
	}

	if err := e.prepareRange(); err != nil {
		return err
	}
	return e.updateESDF()
}

// updateESDF runs FIESTA's three-phase incremental update: seed the
// queue from the insert list, invalidate dependents from the delete
// list, then propagate settled distances outward with the bucketed BFS.
func (e *FiestaEngine) updateESDF() error {
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
	e.logTick("fiesta", processed)
	return nil
}

// seedInsertions handles Algorithm 2's first loop: every voxel in the
// insert list becomes its own closest obstacle, with distance 0,
// self-linked into its own dependent list, and is pushed as a BFS seed.
func (e *FiestaEngine) seedInsertions() error {
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
		cur.Distance = 0
		cur.CocIdx = idx
		if err := dependentlist.Insert(e.core, cur, cur); err != nil {
			return err
		}
		e.queue.Push(idx, 0)
	}
	return nil
}

// raiseDeletions handles Algorithm 2's second loop: for every removed
// obstacle, every voxel that depended on it (collected via
// dependentlist.Dependents, which also yields the obstacle voxel
// itself) loses its coc and is rescanned against its own neighbors for a
// replacement; if one is found the voxel is relinked to its new coc and
// re-pushed, otherwise it reverts to the unknown/default distance with
// no coc.
func (e *FiestaEngine) raiseDeletions() error {
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
			cur.Distance = e.cfg.DefaultDistanceM

			nbrs, _, err := e.neighbors(cur.SelfIdx)
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
				cocOcc, ok := e.occ.VoxelAt(nbr.CocIdx)
				if !ok || !cocOcc.Occupied {
					continue
				}
				d := e.dist(nbr.CocIdx, cur.SelfIdx)
				if d < math32Abs(cur.Distance) {
					cur.Distance = d
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
				cur.Distance = -cur.Distance
			}
			e.queue.Push(cur.SelfIdx, cur.Distance)
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

// lowerBFS drains the bucketed queue, propagating each popped voxel's
// settled distance to its neighbors (Algorithm 1), applying FIESTA's
// patch step (Algorithm 3) first when a voxel was newly classified this
// tick. It returns the number of voxels popped.
func (e *FiestaEngine) lowerBFS() (int, error) {
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
			if d < math32Abs(nbr.Distance) {
				if !nbr.CocIdx.IsUndef() {
					oldCoc, ok := e.esdf.VoxelAt(nbr.CocIdx)
					if ok {
						if err := dependentlist.Delete(e.core, oldCoc, nbr); err != nil {
							return processed, err
						}
					}
				}
				nbr.CocIdx = cur.CocIdx
				nbr.Distance = d
				if nbr.Behind {
					nbr.Distance = -d
				}
				newCoc, ok := e.esdf.VoxelAt(nbr.CocIdx)
				if !ok {
					return processed, fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, nbr.CocIdx)
				}
				if err := dependentlist.Insert(e.core, newCoc, nbr); err != nil {
					return processed, err
				}
				e.queue.Push(nbrIdx, nbr.Distance)
			}
		}
	}
	return processed, nil
}

// patch implements FIESTA's Algorithm 3: a newly classified voxel may
// already have an observed neighbor whose coc is closer to it than its
// current distance, in which case it adopts that neighbor's coc
// immediately instead of waiting for the BFS wave to reach it. It
// reports whether cur's coc actually changed. When it did, cur has
// already been relinked into its new coc's dependent list and re-pushed
// onto the queue, and the caller must not propagate cur this same
// iteration. When it did not (the common case, since cur's coc usually
// already came from the propagation step that queued it), the list and
// queue are left untouched and the caller falls through to propagate
// cur using its existing coc instead.
func (e *FiestaEngine) patch(cur *voxel.EsdfVoxel) (bool, error) {
	nbrs, _, err := e.neighbors(cur.SelfIdx)
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
		if d < math32Abs(cur.Distance) {
			cur.CocIdx = nbr.CocIdx
			cur.Distance = d
			if cur.Behind {
				cur.Distance = -d
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
	e.queue.Push(cur.SelfIdx, cur.Distance)
	return true, nil
}

package esdf

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/robotics-upo/esdf3d/bucketqueue"
	"github.com/robotics-upo/esdf3d/neighborhood"
	"github.com/robotics-upo/esdf3d/rangetracker"
	"github.com/robotics-upo/esdf3d/voxel"
)

// core holds the state every variant shares: the ESDF volume itself,
// the bucketed work queue, the local range tracker, and the
// insert/delete lists loaded for the current tick. Each variant embeds
// a *core and adds its own source volume (occupancy or TSDF).
type core struct {
	esdf    *voxel.Volume[voxel.EsdfVoxel]
	cfg     Config
	queue   *bucketqueue.BucketQueue[voxel.GlobalIndex]
	tracker *rangetracker.Tracker
	conn    neighborhood.Connectivity
	logger  *slog.Logger

	insertList []voxel.GlobalIndex
	deleteList []voxel.GlobalIndex
}

func newCore(esdfVol *voxel.Volume[voxel.EsdfVoxel], cfg Config) (*core, error) {
	q, err := bucketqueue.New[voxel.GlobalIndex](cfg.NumBuckets, cfg.DefaultDistanceM)
	if err != nil {
		return nil, err
	}
	return &core{
		esdf:    esdfVol,
		cfg:     cfg,
		queue:   q,
		tracker: rangetracker.New(cfg.RangeBoundaryOffset),
		conn:    neighborhood.Connectivity(cfg.NumNeighbor),
		logger:  slog.Default(),
	}, nil
}

// EsdfVoxelAt satisfies dependentlist.Locator.
func (c *core) EsdfVoxelAt(g voxel.GlobalIndex) (*voxel.EsdfVoxel, bool) { return c.esdf.VoxelAt(g) }

// LoadInsertList stores the set of voxels that newly became (or
// remained) seeds for this tick, replacing whatever was loaded before.
func (c *core) LoadInsertList(list []voxel.GlobalIndex) { c.insertList = list }

// LoadDeleteList stores the set of voxels whose obstacle status was
// just removed for this tick, replacing whatever was loaded before.
func (c *core) LoadDeleteList(list []voxel.GlobalIndex) { c.deleteList = list }

// AssignError records a visualization-only per-voxel error value; it has
// no effect on the distance field itself.
func (c *core) AssignError(g voxel.GlobalIndex, value float32) error {
	v, ok := c.esdf.VoxelAt(g)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrMissingEsdfVoxel, g)
	}
	v.Error = value
	return nil
}

// GetMaxDistance returns the current maximum exact-distance cutoff.
func (c *core) GetMaxDistance() float32 { return c.cfg.MaxDistanceM }

// SetMaxDistance updates the maximum exact-distance cutoff (and the
// matching default/saturation distance), rebuilding the bucketed queue
// since its bucket boundaries are derived from this value.
func (c *core) SetMaxDistance(m float32) error {
	if m <= 0 {
		return fmt.Errorf("%w: got %f", ErrInvalidMaxDistance, m)
	}
	q, err := bucketqueue.New[voxel.GlobalIndex](c.cfg.NumBuckets, m)
	if err != nil {
		return err
	}
	c.cfg.MaxDistanceM = m
	c.cfg.DefaultDistanceM = m
	c.queue = q
	return nil
}

// dist returns the Euclidean distance, in meters, between the voxel
// centers addressed by a and b.
func (c *core) dist(a, b voxel.GlobalIndex) float32 {
	d := a.Sub(b)
	return math32.Sqrt(float32(d.X*d.X+d.Y*d.Y+d.Z*d.Z)) * c.esdf.VoxelSize()
}

// voxInRange reports whether g falls within the current tick's padded
// local update range.
func (c *core) voxInRange(g voxel.GlobalIndex) bool { return c.tracker.InRange(g) }

// prepareRange recomputes the local update range from the loaded
// insert/delete lists and eagerly allocates every ESDF block it spans.
// Every variant's update entry point calls this before touching the
// queue or walking any list.
func (c *core) prepareRange() error {
	if err := c.tracker.ComputeUpdateRange(c.insertList, c.deleteList); err != nil {
		return fmt.Errorf("%w: %w", ErrNoUpdateRange, err)
	}
	c.tracker.AllocateBlocks(c.esdf)
	if c.cfg.Verbose {
		min, max := c.tracker.LocalRange()
		c.logger.Info("esdf local range", "min", min, "max", max, "insert", len(c.insertList), "delete", len(c.deleteList))
	}
	return nil
}

// logTick emits a single structured summary line for a completed
// update, when verbose logging is enabled.
func (c *core) logTick(variant string, processed int) {
	if !c.cfg.Verbose {
		return
	}
	c.logger.Info("esdf tick", "variant", variant, "processed", processed, "queue_remaining", c.queue.Len())
}

package esdf

import (
	"fmt"

	"github.com/robotics-upo/esdf3d/voxel"
)

// Config holds the tunables shared by every variant. Defaults match the
// original FIESTA/Voxfield integrators' Config structs field for field.
type Config struct {
	Verbose bool

	MaxDistanceM      float32
	DefaultDistanceM  float32
	MaxBehindSurfaceM float32

	NumBuckets  int
	NumNeighbor int

	PatchOn    bool
	EarlyBreak bool

	// DirectionGuide restricts the lowering BFS of Fiesta and Voxfield to
	// propagate only into the half-neighborhood facing away from the
	// popped voxel's closest obstacle (see neighborhood.NeighborsToward);
	// raise rescans always use the full neighborhood. Ignored by Edt. The
	// original integrators build this path but leave it disabled by
	// default (#define DIRECTION_GUIDE commented out), favoring the
	// simpler full-neighborhood rescan; we keep that default.
	DirectionGuide bool

	// FinerEsdfOn enables Voxfield's sub-voxel correction using the TSDF
	// gradient at the closest-obstacle voxel. Ignored by Fiesta/Edt.
	FinerEsdfOn bool
	// FixedBandEsdfOn copies the TSDF's own distance directly for voxels
	// inside its fixed truncation band. The BFS never overwrites that
	// Distance, although such voxels still receive a RawDistance and coc
	// and still propagate to their neighbors. Ignored by Fiesta/Edt.
	FixedBandEsdfOn bool
	// GradientSign flips the direction the sub-voxel correction walks
	// along the TSDF gradient; -1 matches the usual convention that the
	// gradient points from occupied into free space. Ignored by
	// Fiesta/Edt.
	GradientSign float32
	// AllocateTsdfInRange additionally allocates TSDF blocks (not just
	// ESDF blocks) across the padded local range, so Voxfield's sub-voxel
	// correction can always read a coc voxel's TSDF gradient even when
	// that coc sits in a block the TSDF integrator itself never touched
	// this tick.
	AllocateTsdfInRange bool
	// BandDistanceM is Voxfield's fixed truncation band half-width: a
	// voxel whose TSDF distance falls within this band of the surface
	// copies that distance directly instead of waiting for BFS
	// propagation. Ignored by Fiesta/Edt.
	BandDistanceM float32

	RangeBoundaryOffset voxel.GlobalIndex
}

// Option configures a Config. Construct one with NewConfig(opts...).
type Option func(*Config) error

// defaultConfig returns the original integrators' defaults.
func defaultConfig() Config {
	return Config{
		Verbose:             false,
		MaxDistanceM:        10.0,
		DefaultDistanceM:    10.0,
		MaxBehindSurfaceM:   1.0,
		NumBuckets:          20,
		NumNeighbor:         24,
		PatchOn:             true,
		EarlyBreak:          true,
		DirectionGuide:      false,
		FinerEsdfOn:         true,
		FixedBandEsdfOn:     true,
		GradientSign:        -1.0,
		AllocateTsdfInRange: true,
		BandDistanceM:       0.2,
		RangeBoundaryOffset: voxel.GlobalIndex{X: 10, Y: 10, Z: 5},
	}
}

// NewConfig builds a Config from the original integrators' defaults,
// applies opts in order, and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	if cfg.MaxDistanceM <= 0 {
		return Config{}, fmt.Errorf("%w: got %f", ErrInvalidMaxDistance, cfg.MaxDistanceM)
	}
	if cfg.DefaultDistanceM <= 0 {
		return Config{}, fmt.Errorf("%w: got %f", ErrInvalidMaxDistance, cfg.DefaultDistanceM)
	}
	if cfg.MaxBehindSurfaceM < 0 {
		return Config{}, fmt.Errorf("%w: got %f", ErrInvalidMaxBehindSurface, cfg.MaxBehindSurfaceM)
	}
	if cfg.NumBuckets <= 0 {
		return Config{}, fmt.Errorf("%w: got %d", ErrInvalidNumBuckets, cfg.NumBuckets)
	}
	switch cfg.NumNeighbor {
	case 6, 18, 24, 26:
	default:
		return Config{}, fmt.Errorf("%w: got %d", ErrInvalidNeighborCount, cfg.NumNeighbor)
	}
	if cfg.BandDistanceM < 0 {
		return Config{}, fmt.Errorf("%w: got %f", ErrInvalidMaxBehindSurface, cfg.BandDistanceM)
	}
	return cfg, nil
}

// WithVerbose toggles structured diagnostic logging of each tick.
func WithVerbose(v bool) Option { return func(c *Config) error { c.Verbose = v; return nil } }

// WithMaxDistance sets the maximum distance to compute exactly; voxels
// farther than this saturate at DefaultDistanceM.
func WithMaxDistance(m float32) Option {
	return func(c *Config) error {
		if m <= 0 {
			return fmt.Errorf("%w: got %f", ErrInvalidMaxDistance, m)
		}
		c.MaxDistanceM = m
		c.DefaultDistanceM = m
		return nil
	}
}

// WithMaxBehindSurface sets the truncation distance used behind an
// observed surface.
func WithMaxBehindSurface(m float32) Option {
	return func(c *Config) error {
		if m < 0 {
			return fmt.Errorf("%w: got %f", ErrInvalidMaxBehindSurface, m)
		}
		c.MaxBehindSurfaceM = m
		return nil
	}
}

// WithNumBuckets sets the bucketed queue's bucket count.
func WithNumBuckets(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidNumBuckets, n)
		}
		c.NumBuckets = n
		return nil
	}
}

// WithNumNeighbor sets the BFS neighborhood connectivity; must be one of
// 6, 18, 24, 26.
func WithNumNeighbor(n int) Option {
	return func(c *Config) error {
		switch n {
		case 6, 18, 24, 26:
			c.NumNeighbor = n
			return nil
		default:
			return fmt.Errorf("%w: got %d", ErrInvalidNeighborCount, n)
		}
	}
}

// WithPatchOn toggles FIESTA's Algorithm 3 patch step.
func WithPatchOn(on bool) Option { return func(c *Config) error { c.PatchOn = on; return nil } }

// WithEarlyBreak toggles stopping a raise rescan at the first neighbor
// that still has a valid closest obstacle.
func WithEarlyBreak(on bool) Option { return func(c *Config) error { c.EarlyBreak = on; return nil } }

// WithDirectionGuide toggles half-neighborhood propagation in the
// lowering BFS.
func WithDirectionGuide(on bool) Option {
	return func(c *Config) error { c.DirectionGuide = on; return nil }
}

// WithFinerEsdfOn toggles Voxfield's TSDF-gradient sub-voxel correction.
func WithFinerEsdfOn(on bool) Option {
	return func(c *Config) error { c.FinerEsdfOn = on; return nil }
}

// WithFixedBandEsdfOn toggles copying the TSDF's own distance directly
// inside its fixed truncation band.
func WithFixedBandEsdfOn(on bool) Option {
	return func(c *Config) error { c.FixedBandEsdfOn = on; return nil }
}

// WithGradientSign sets the sign applied to the TSDF gradient during
// Voxfield's sub-voxel correction.
func WithGradientSign(s float32) Option {
	return func(c *Config) error { c.GradientSign = s; return nil }
}

// WithAllocateTsdfInRange toggles eagerly allocating TSDF blocks across
// the padded local range alongside ESDF blocks.
func WithAllocateTsdfInRange(on bool) Option {
	return func(c *Config) error { c.AllocateTsdfInRange = on; return nil }
}

// WithBandDistanceM sets Voxfield's fixed truncation band half-width.
func WithBandDistanceM(m float32) Option {
	return func(c *Config) error {
		if m < 0 {
			return fmt.Errorf("%w: got %f", ErrInvalidMaxBehindSurface, m)
		}
		c.BandDistanceM = m
		return nil
	}
}

// WithRangeBoundaryOffset sets the per-axis padding added around a
// tick's insert/delete bounding box.
func WithRangeBoundaryOffset(offset voxel.GlobalIndex) Option {
	return func(c *Config) error { c.RangeBoundaryOffset = offset; return nil }
}

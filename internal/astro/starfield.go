package astro

import "math/rand/v2"

// StarfieldConfig controls procedural starfield generation.
type StarfieldConfig struct {
	Count  int     // Number of points
	Spread float64 // Edge length of the cube the points are scattered in
	Seed   uint64  // RNG seed; equal seeds give equal fields
}

// DefaultStarfieldConfig returns the reference backdrop: 10000 points in a
// cube of side 4000 centered on the origin.
func DefaultStarfieldConfig() StarfieldConfig {
	return StarfieldConfig{
		Count:  10000,
		Spread: 4000,
		Seed:   1,
	}
}

// Starfield is a static point cloud. It is generated once and never changes.
type Starfield struct {
	Points []Vec3
}

// GenerateStarfield scatters cfg.Count points uniformly inside the cube
// [-Spread/2, Spread/2]^3.
func GenerateStarfield(cfg StarfieldConfig) Starfield {
	if cfg.Count <= 0 {
		return Starfield{}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	points := make([]Vec3, cfg.Count)
	for i := range points {
		points[i] = Vec3{
			X: (rng.Float64() - 0.5) * cfg.Spread,
			Y: (rng.Float64() - 0.5) * cfg.Spread,
			Z: (rng.Float64() - 0.5) * cfg.Spread,
		}
	}
	return Starfield{Points: points}
}

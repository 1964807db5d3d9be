package astro

import "testing"

func TestGenerateStarfieldBounds(t *testing.T) {
	cfg := StarfieldConfig{Count: 500, Spread: 4000, Seed: 7}
	field := GenerateStarfield(cfg)

	if len(field.Points) != cfg.Count {
		t.Fatalf("len(Points) = %d, want %d", len(field.Points), cfg.Count)
	}

	half := cfg.Spread / 2
	for i, p := range field.Points {
		if p.X < -half || p.X >= half || p.Y < -half || p.Y >= half || p.Z < -half || p.Z >= half {
			t.Fatalf("point %d = %v outside cube of half-size %v", i, p, half)
		}
	}
}

func TestGenerateStarfieldDeterministic(t *testing.T) {
	cfg := StarfieldConfig{Count: 50, Spread: 100, Seed: 42}
	a := GenerateStarfield(cfg)
	b := GenerateStarfield(cfg)

	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("point %d differs between runs: %v vs %v", i, a.Points[i], b.Points[i])
		}
	}

	cfg.Seed = 43
	c := GenerateStarfield(cfg)
	same := true
	for i := range a.Points {
		if a.Points[i] != c.Points[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestGenerateStarfieldEmpty(t *testing.T) {
	if got := GenerateStarfield(StarfieldConfig{Count: 0, Spread: 10}); len(got.Points) != 0 {
		t.Errorf("Count 0 produced %d points", len(got.Points))
	}
}

func TestDefaultStarfieldConfig(t *testing.T) {
	cfg := DefaultStarfieldConfig()
	if cfg.Count != 10000 {
		t.Errorf("Count = %d, want 10000", cfg.Count)
	}
	if cfg.Spread != 4000 {
		t.Errorf("Spread = %v, want 4000", cfg.Spread)
	}
}

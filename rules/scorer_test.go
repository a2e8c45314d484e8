package rules

import (
	"math"
	"testing"

	"github.com/rushteam/pairkit/core"
)

func testCandidate(wt core.WineType, country, notes string, tags ...string) *core.Candidate {
	c := core.NewCandidate("w1", "2020")
	c.Type = wt
	c.Country = country
	c.TastingNotes = notes
	c.FoodPairingTags = tags
	return c
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"default", DefaultWeights(), false},
		{"sum not one", Weights{StyleMatch: 0.5, FlavorHarmony: 0.6}, true},
		{"negative", Weights{StyleMatch: -0.1, FlavorHarmony: 0.4, TextureBalance: 0.3, RegionalTradition: 0.2, SeasonalAppropriateness: 0.2}, true},
		{"custom valid", Weights{StyleMatch: 0.5, FlavorHarmony: 0.2, TextureBalance: 0.1, RegionalTradition: 0.1, SeasonalAppropriateness: 0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !core.IsInvalidConfig(err) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestStyleMatch(t *testing.T) {
	s, err := NewScorer(DefaultWeights())
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}

	tests := []struct {
		name    string
		protein core.Protein
		prep    core.Preparation
		wine    core.WineType
		want    float64
	}{
		{"fish prefers white", core.ProteinFish, core.PrepGrilled, core.WineWhite, 1.0},
		{"fish adjacent sparkling", core.ProteinFish, core.PrepGrilled, core.WineSparkling, 0.6},
		{"fish vs red", core.ProteinFish, core.PrepGrilled, core.WineRed, 0.2},
		{"beef prefers red", core.ProteinBeef, core.PrepBraised, core.WineRed, 1.0},
		{"beef vs sparkling", core.ProteinBeef, core.PrepBraised, core.WineSparkling, 0.2},
		{"raw shellfish sparkling", core.ProteinShellfish, core.PrepRaw, core.WineSparkling, 1.0},
		{"unknown protein", core.ProteinUnknown, core.PrepGrilled, core.WineRed, 0.5},
		{"poached poultry white", core.ProteinPoultry, core.PrepPoached, core.WineWhite, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := &core.PairingContext{Protein: tt.protein, Preparation: tt.prep}
			c := testCandidate(tt.wine, "", "")
			if got := s.styleMatch(pctx, c); got != tt.want {
				t.Errorf("styleMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlavorHarmony(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())

	t.Run("overlap raises score", func(t *testing.T) {
		pctx := &core.PairingContext{Description: "grilled salmon with lemon butter"}
		matched := testCandidate(core.WineWhite, "", "lemon citrus notes", "salmon", "grilled fish")
		unmatched := testCandidate(core.WineWhite, "", "dark chocolate and plum")

		hi := s.flavorHarmony(pctx, matched)
		lo := s.flavorHarmony(pctx, unmatched)
		if hi <= lo {
			t.Errorf("matched %v should beat unmatched %v", hi, lo)
		}
	})

	t.Run("empty wine text neutral", func(t *testing.T) {
		pctx := &core.PairingContext{Description: "grilled salmon"}
		got := s.flavorHarmony(pctx, testCandidate(core.WineWhite, "", ""))
		if got != 0.3 {
			t.Errorf("flavorHarmony() = %v, want 0.3", got)
		}
	})
}

func TestTextureBalance(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())

	tests := []struct {
		name      string
		intensity core.Intensity
		wine      core.WineType
		want      float64
	}{
		{"light dish sparkling", core.IntensityLight, core.WineSparkling, 0.9},
		{"rich dish red", core.IntensityRich, core.WineRed, 0.95},
		{"light dish fortified", core.IntensityLight, core.WineFortified, 0.1},
		{"unknown intensity", core.IntensityUnknown, core.WineRed, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := &core.PairingContext{Intensity: tt.intensity}
			got := s.textureBalance(pctx, testCandidate(tt.wine, "", ""))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("textureBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionalTradition(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())

	tests := []struct {
		name    string
		cuisine string
		country string
		want    float64
	}{
		{"greek with greece", "greek", "Greece", 1.0},
		{"greek with france", "greek", "France", 0.3},
		{"unknown cuisine", "fusion", "France", 0.5},
		{"empty cuisine", "", "France", 0.5},
		{"case insensitive", "  French ", "FRANCE", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := &core.PairingContext{Cuisine: tt.cuisine}
			got := s.regionalTradition(pctx, testCandidate(core.WineWhite, tt.country, ""))
			if got != tt.want {
				t.Errorf("regionalTradition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeasonalAppropriateness(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())

	tests := []struct {
		name   string
		season core.Season
		wine   core.WineType
		want   float64
	}{
		{"summer sparkling", core.SeasonSummer, core.WineSparkling, 1.0},
		{"summer red", core.SeasonSummer, core.WineRed, 0.35},
		{"winter red", core.SeasonWinter, core.WineRed, 1.0},
		{"unknown season", core.SeasonUnknown, core.WineRed, 0.5},
		{"no table entry", core.SeasonSpring, core.WineDessert, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := &core.PairingContext{Season: tt.season}
			got := s.seasonalAppropriateness(pctx, testCandidate(tt.wine, "", ""))
			if got != tt.want {
				t.Errorf("seasonalAppropriateness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreFillsBreakdown(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())
	pctx := &core.PairingContext{
		Description: "Grilled sea bass with lemon",
		Protein:     core.ProteinFish,
		Cuisine:     "greek",
		Preparation: core.PrepGrilled,
		Intensity:   core.IntensityLight,
		Season:      core.SeasonSummer,
	}
	c := testCandidate(core.WineWhite, "greece", "citrus lemon minerality", "seafood", "grilled fish")

	total := s.Score(pctx, c)

	b := c.Breakdown
	if total != b.RuleTotal {
		t.Errorf("Score() = %v, breakdown total = %v", total, b.RuleTotal)
	}
	for name, v := range map[string]float64{
		"style":    b.StyleMatch,
		"flavor":   b.FlavorHarmony,
		"texture":  b.TextureBalance,
		"regional": b.RegionalTradition,
		"seasonal": b.SeasonalAppropriateness,
		"total":    b.RuleTotal,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s score out of [0,1]: %v", name, v)
		}
	}

	// an aligned pairing should score clearly above the floor
	if total < 0.7 {
		t.Errorf("aligned pairing scored %v, want >= 0.7", total)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s, _ := NewScorer(DefaultWeights())
	pctx := &core.PairingContext{
		Description: "Braised short ribs",
		Protein:     core.ProteinBeef,
		Intensity:   core.IntensityRich,
		Season:      core.SeasonWinter,
	}

	first := s.Score(pctx, testCandidate(core.WineRed, "france", "dark fruit and tannin", "beef"))
	second := s.Score(pctx, testCandidate(core.WineRed, "france", "dark fruit and tannin", "beef"))
	if first != second {
		t.Errorf("identical inputs scored differently: %v vs %v", first, second)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Grilled sea-bass with the lemon, AND herbs")
	want := []string{"grilled", "sea", "bass", "lemon", "herbs"}
	for _, w := range want {
		if !got[w] {
			t.Errorf("missing token %q in %v", w, got)
		}
	}
	if got["the"] || got["and"] || got["with"] {
		t.Errorf("stopwords leaked into %v", got)
	}
}

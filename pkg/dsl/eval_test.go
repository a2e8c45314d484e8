package dsl

import (
	"testing"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pkg/utils"
)

func testInput() (*core.Candidate, *core.PairingContext) {
	c := core.NewCandidate("port", "2015")
	c.Type = core.WineFortified
	c.Country = "portugal"
	c.AvailableQuantity = 3
	c.Score = 0.6
	c.PutLabel("rule_style_match", utils.Label{Value: "0.20", Source: "rules"})

	pctx := &core.PairingContext{
		Description: "Grilled sea bass",
		Protein:     core.ProteinFish,
		Occasion:    core.OccasionBusiness,
		Intensity:   core.IntensityLight,
		GuestCount:  8,
	}
	return c, pctx
}

func TestEvaluate(t *testing.T) {
	c, pctx := testInput()

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"type match", `candidate.type == "fortified"`, true},
		{"type mismatch", `candidate.type == "red"`, false},
		{"numeric compare", `candidate.available_quantity < dish.guest_count`, true},
		{"dish context", `dish.occasion == "business" && candidate.type == "fortified"`, true},
		{"intensity guard", `candidate.type == "dessert" && dish.intensity != "rich"`, false},
		{"label access", `label.rule_style_match == "0.20"`, true},
		{"score threshold", `candidate.score > 0.5`, true},
		{"empty expr is true", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(c, pctx).Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	c, pctx := testInput()

	t.Run("compile error", func(t *testing.T) {
		if _, err := NewEval(c, pctx).Evaluate(`candidate.type ==`); err == nil {
			t.Error("expected compile error")
		}
	})

	t.Run("non-boolean result", func(t *testing.T) {
		if _, err := NewEval(c, pctx).Evaluate(`candidate.score`); err == nil {
			t.Error("expected type error for non-boolean expression")
		}
	})
}

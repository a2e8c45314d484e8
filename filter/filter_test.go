package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/pairkit/core"
)

func stocked(id string, qty int) *core.Candidate {
	c := core.NewCandidate(id, "2020")
	c.Type = core.WineWhite
	c.AvailableQuantity = qty
	return c
}

func TestStockFilter(t *testing.T) {
	f := &StockFilter{} // default 4 guests per bottle

	tests := []struct {
		name   string
		guests int
		qty    int
		want   bool
	}{
		{"no guest count keeps", 0, 0, false},
		{"enough stock", 8, 2, false},
		{"exact need", 8, 2, false},
		{"short one bottle", 9, 2, true},
		{"single guest single bottle", 1, 1, false},
		{"out of stock", 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := &core.PairingContext{GuestCount: tt.guests}
			got, err := f.ShouldFilter(context.Background(), pctx, stocked("w", tt.qty))
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("guests %d qty %d: filtered = %v, want %v", tt.guests, tt.qty, got, tt.want)
			}
		})
	}
}

func TestDSLFilter(t *testing.T) {
	pctx := &core.PairingContext{Description: "light salad", Intensity: core.IntensityLight}
	dessert := stocked("sauternes", 5)
	dessert.Type = core.WineDessert

	f := &DSLFilter{Expr: `candidate.type == "dessert" && dish.intensity != "rich"`}
	got, err := f.ShouldFilter(context.Background(), pctx, dessert)
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if !got {
		t.Error("dessert wine with a light dish should be filtered")
	}

	white := stocked("chablis", 5)
	got, err = f.ShouldFilter(context.Background(), pctx, white)
	if err != nil || got {
		t.Errorf("white wine filtered = %v, err = %v", got, err)
	}

	empty := &DSLFilter{}
	if got, _ := empty.ShouldFilter(context.Background(), pctx, dessert); got {
		t.Error("empty expression must keep everything")
	}
}

type errFilter struct{}

func (errFilter) Name() string { return "filter.err" }
func (errFilter) ShouldFilter(context.Context, *core.PairingContext, *core.Candidate) (bool, error) {
	return false, errors.New("boom")
}

func TestFilterNode(t *testing.T) {
	pctx := &core.PairingContext{GuestCount: 12}
	candidates := []*core.Candidate{
		stocked("plenty", 10),
		stocked("scarce", 1),
	}

	node := &Node{Filters: []Filter{errFilter{}, &StockFilter{}}}
	out, err := node.Process(context.Background(), pctx, candidates)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 1 || out[0].WineID != "plenty" {
		t.Fatalf("unexpected survivors: %d", len(out))
	}
	// the filtered candidate carries the reason label
	if lbl, ok := candidates[1].Labels["filtered"]; !ok || lbl.Source != "filter.stock" {
		t.Errorf("filtered label = %+v", candidates[1].Labels["filtered"])
	}
}

func TestFilterNodeNoFilters(t *testing.T) {
	node := &Node{}
	candidates := []*core.Candidate{stocked("a", 1)}
	out, err := node.Process(context.Background(), &core.PairingContext{}, candidates)
	if err != nil || len(out) != 1 {
		t.Errorf("no filters must pass through, got %d err %v", len(out), err)
	}
}

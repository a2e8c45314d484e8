package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/rules"
	"github.com/rushteam/pairkit/store"
)

type stubInventory struct {
	candidates []*core.Candidate
	err        error
}

func (s *stubInventory) ListAvailableCandidates(_ context.Context, _ core.CandidateFilter) ([]*core.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	// fresh copies so repeated runs never share pipeline state
	out := make([]*core.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		clone := *c
		clone.Labels = nil
		clone.Breakdown = core.ScoreBreakdown{}
		out = append(out, &clone)
	}
	return out, nil
}

type stubProvider struct {
	name  string
	delay time.Duration
	calls int64
	fail  error
}

func (p *stubProvider) GenerateReasoning(ctx context.Context, req *core.ReasoningRequest) (*core.ReasoningResponse, error) {
	atomic.AddInt64(&p.calls, 1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.fail != nil {
		return nil, p.fail
	}
	return &core.ReasoningResponse{
		Reasoning:  "pairs well with " + req.Candidate.WineID,
		Adjustment: 0.2,
	}, nil
}

func (p *stubProvider) Name() string { return p.name }
func (p *stubProvider) Close() error { return nil }

func wine(id string, wt core.WineType, country, region string, notes string, tags ...string) *core.Candidate {
	c := core.NewCandidate(id, "2021")
	c.Type = wt
	c.Country = country
	c.Region = region
	c.TastingNotes = notes
	c.FoodPairingTags = tags
	c.AvailableQuantity = 10
	return c
}

func cellar() []*core.Candidate {
	return []*core.Candidate{
		wine("albarino", core.WineWhite, "spain", "rias baixas",
			"crisp citrus and saline minerality", "seafood", "shellfish", "grilled fish"),
		wine("cava", core.WineSparkling, "spain", "penedes",
			"bright citrus with fine bubbles", "seafood", "fried food", "celebration"),
		wine("rioja", core.WineRed, "spain", "rioja",
			"dark cherry leather and tobacco", "red meat", "lamb", "roasted meat"),
		wine("barolo", core.WineRed, "italy", "piedmont",
			"tar roses and firm tannin", "red meat", "game", "braised beef"),
		wine("sauternes", core.WineDessert, "france", "bordeaux",
			"honeyed apricot sweetness", "dessert", "blue cheese"),
	}
}

func seafoodDish() *core.PairingContext {
	return &core.PairingContext{
		Description: "Grilled sea bass with lemon and herbs",
		Protein:     core.ProteinFish,
		Cuisine:     "spanish",
		Preparation: core.PrepGrilled,
		Intensity:   core.IntensityLight,
		Season:      core.SeasonSummer,
		GuestCount:  2,
	}
}

func redMeatDish() *core.PairingContext {
	return &core.PairingContext{
		Description: "Braised beef short ribs with root vegetables",
		Protein:     core.ProteinBeef,
		Cuisine:     "french",
		Preparation: core.PrepBraised,
		Intensity:   core.IntensityRich,
		Season:      core.SeasonWinter,
		GuestCount:  4,
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(&stubInventory{candidates: cellar()}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestQuickRecommendSeafood(t *testing.T) {
	e := newTestEngine(t)

	recs, err := e.QuickRecommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}

	top := recs[0].Candidate
	if top.Type == core.WineRed || top.Type == core.WineDessert {
		t.Errorf("grilled fish in summer should not rank %s first", top.Type)
	}
}

func TestQuickRecommendSeafoodWhiteOverRed(t *testing.T) {
	pair := []*core.Candidate{
		wine("rioja", core.WineRed, "spain", "rioja",
			"dark cherry leather and tobacco", "red meat", "lamb"),
		wine("albarino", core.WineWhite, "spain", "rias baixas",
			"crisp citrus and saline minerality", "seafood", "grilled fish"),
	}
	e, err := New(&stubInventory{candidates: pair})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	recs, err := e.QuickRecommend(context.Background(), seafoodDish(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d results, want 2", len(recs))
	}

	top := recs[0]
	if top.Candidate.Type != core.WineWhite {
		t.Fatalf("grilled fish should rank the white first, got %s (%s)",
			top.Candidate.Type, top.Candidate.WineID)
	}
	if top.Breakdown.StyleMatch < 0.99 {
		t.Errorf("white style match = %v, want ~1.0", top.Breakdown.StyleMatch)
	}
}

func TestQuickRecommendRedMeat(t *testing.T) {
	e := newTestEngine(t)

	recs, err := e.QuickRecommend(context.Background(), redMeatDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}

	if recs[0].Candidate.Type != core.WineRed {
		t.Errorf("braised beef should rank a red first, got %s (%s)",
			recs[0].Candidate.Type, recs[0].Candidate.WineID)
	}
}

func TestQuickRecommendDeterministic(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.QuickRecommend(ctx, seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}
	second, err := e.QuickRecommend(ctx, seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Candidate.ID() != second[i].Candidate.ID() {
			t.Errorf("position %d: %s vs %s", i, first[i].Candidate.ID(), second[i].Candidate.ID())
		}
		if first[i].Breakdown.Total != second[i].Breakdown.Total {
			t.Errorf("position %d: total %v vs %v", i, first[i].Breakdown.Total, second[i].Breakdown.Total)
		}
	}
}

func TestRecommendSortAndBounds(t *testing.T) {
	e := newTestEngine(t)

	recs, err := e.QuickRecommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}

	for i, r := range recs {
		b := r.Breakdown
		if b.Total < 0 || b.Total > 1 {
			t.Errorf("total out of range: %v", b.Total)
		}
		if b.Confidence < 0 || b.Confidence > 1 {
			t.Errorf("confidence out of range: %v", b.Confidence)
		}
		if b.DisplayScore > b.Total {
			t.Errorf("display score %v exceeds total %v", b.DisplayScore, b.Total)
		}
		if i > 0 && recs[i-1].Breakdown.DisplayScore < b.DisplayScore {
			t.Errorf("display score not non-increasing at position %d", i)
		}
	}
}

func TestRecommendEmptyInventory(t *testing.T) {
	e, err := New(&stubInventory{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = e.Recommend(context.Background(), seafoodDish(), Options{})
	if !core.IsNoCandidates(err) {
		t.Errorf("expected NO_CANDIDATES, got %v", err)
	}
}

func TestRecommendMissingDescription(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Recommend(context.Background(), &core.PairingContext{}, Options{})
	if !core.IsValidation(err) {
		t.Errorf("expected VALIDATION, got %v", err)
	}
}

func TestRecommendAllProvidersDown(t *testing.T) {
	down := &stubProvider{name: "down", fail: errors.New("connection refused")}
	e := newTestEngine(t, WithProviders(down))

	recs, err := e.Recommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("provider failure must not fail the request: %v", err)
	}
	for _, r := range recs {
		if r.AIEnhanced {
			t.Errorf("%s marked AI enhanced with all providers down", r.Candidate.ID())
		}
		if r.Breakdown.AIAdjustment != nil {
			t.Errorf("%s has AI adjustment with all providers down", r.Candidate.ID())
		}
	}
	if atomic.LoadInt64(&down.calls) == 0 {
		t.Error("provider was never attempted")
	}
}

func TestRecommendFallbackProvider(t *testing.T) {
	primary := &stubProvider{name: "primary", fail: errors.New("boom")}
	secondary := &stubProvider{name: "secondary"}
	e := newTestEngine(t, WithProviders(primary, secondary), WithTopK(2))

	recs, err := e.Recommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	enhanced := 0
	for _, r := range recs {
		if r.AIEnhanced {
			enhanced++
			if r.Breakdown.AIAdjustment == nil {
				t.Error("AI enhanced result missing adjustment")
			}
		}
	}
	if enhanced != 2 {
		t.Errorf("expected 2 AI enhanced results via fallback, got %d", enhanced)
	}
	if atomic.LoadInt64(&secondary.calls) != 2 {
		t.Errorf("secondary provider calls = %d, want 2", secondary.calls)
	}
}

func TestRecommendSingleFlight(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: 80 * time.Millisecond}
	mem := store.NewMemoryStore()
	defer mem.Close()
	e := newTestEngine(t, WithProviders(slow), WithTopK(3), WithStore(mem))

	const parallel = 6
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Recommend(context.Background(), seafoodDish(), Options{Limit: 3})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	// one merged computation reasons over top-3 only
	if calls := atomic.LoadInt64(&slow.calls); calls != 3 {
		t.Errorf("provider calls = %d, want 3 (requests not merged)", calls)
	}
}

func TestRecommendCancelledPeerDoesNotDegradeFlight(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: 80 * time.Millisecond}
	mem := store.NewMemoryStore()
	defer mem.Close()
	e := newTestEngine(t, WithProviders(slow), WithTopK(2), WithStore(mem))

	cancelCtx, cancel := context.WithCancel(context.Background())
	peerErr := make(chan error, 1)
	go func() {
		_, err := e.Recommend(cancelCtx, seafoodDish(), Options{Limit: 2})
		peerErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	var recs []*core.Recommendation
	var err error
	go func() {
		defer close(done)
		recs, err = e.Recommend(context.Background(), seafoodDish(), Options{Limit: 2})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if perr := <-peerErr; !errors.Is(perr, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", perr)
	}

	<-done
	if err != nil {
		t.Fatalf("attached caller failed: %v", err)
	}
	if len(recs) == 0 || !recs[0].AIEnhanced {
		t.Error("peer cancellation degraded the shared computation")
	}

	// 缓存里是完整结果，后续请求不受影响
	cached, err := e.Recommend(context.Background(), seafoodDish(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("follow-up Recommend() error = %v", err)
	}
	if len(cached) == 0 || !cached[0].AIEnhanced {
		t.Error("cache was poisoned by the cancelled caller")
	}
}

func TestRecommendCacheHit(t *testing.T) {
	provider := &stubProvider{name: "p"}
	mem := store.NewMemoryStore()
	defer mem.Close()
	e := newTestEngine(t, WithProviders(provider), WithTopK(2), WithStore(mem))
	ctx := context.Background()

	if _, err := e.Recommend(ctx, seafoodDish(), Options{}); err != nil {
		t.Fatalf("first Recommend() error = %v", err)
	}
	before := atomic.LoadInt64(&provider.calls)

	if _, err := e.Recommend(ctx, seafoodDish(), Options{}); err != nil {
		t.Fatalf("second Recommend() error = %v", err)
	}
	if after := atomic.LoadInt64(&provider.calls); after != before {
		t.Errorf("cached request recomputed: calls %d -> %d", before, after)
	}
}

func TestRecommendRequireAIBypassesCache(t *testing.T) {
	provider := &stubProvider{name: "p"}
	mem := store.NewMemoryStore()
	defer mem.Close()
	e := newTestEngine(t, WithProviders(provider), WithTopK(2), WithStore(mem))
	ctx := context.Background()

	if _, err := e.Recommend(ctx, seafoodDish(), Options{}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	before := atomic.LoadInt64(&provider.calls)

	recs, err := e.Recommend(ctx, seafoodDish(), Options{RequireAI: true})
	if err != nil {
		t.Fatalf("Recommend(RequireAI) error = %v", err)
	}
	if after := atomic.LoadInt64(&provider.calls); after == before {
		t.Error("RequireAI did not bypass the cached result")
	}
	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
}

func TestRecommendLimitCappedAtTopK(t *testing.T) {
	provider := &stubProvider{name: "p"}
	e := newTestEngine(t, WithProviders(provider), WithTopK(2))

	recs, err := e.Recommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d results, want 2 (requested limit must not exceed the AI top-K)", len(recs))
	}

	// 无 AI 阶段时不截断
	quick, err := e.QuickRecommend(context.Background(), seafoodDish(), Options{Limit: 5})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}
	if len(quick) != 5 {
		t.Errorf("quick path got %d results, want 5", len(quick))
	}
}

func TestQuickRecommendConfidenceWithoutModel(t *testing.T) {
	e := newTestEngine(t)

	recs, err := e.QuickRecommend(context.Background(), seafoodDish(), Options{Limit: 1})
	if err != nil {
		t.Fatalf("QuickRecommend() error = %v", err)
	}

	// rule-only path: base 0.9 x completeness 0.5
	got := recs[0].Breakdown.Confidence
	if got < 0.44 || got > 0.46 {
		t.Errorf("rule-only confidence = %v, want ~0.45", got)
	}
	if recs[0].Breakdown.EnsembleRating != nil {
		t.Error("degraded model must not emit an ensemble rating")
	}
}

func TestNewInvalidRuleWeights(t *testing.T) {
	bad := rules.Weights{StyleMatch: 0.9, FlavorHarmony: 0.9}
	_, err := New(&stubInventory{candidates: cellar()}, WithRuleWeights(bad))
	if !core.IsInvalidConfig(err) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

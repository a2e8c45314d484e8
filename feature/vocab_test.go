package feature

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVocabularyIndex(t *testing.T) {
	v := DefaultVocabulary()

	tests := []struct {
		name   string
		domain string
		value  string
		want   int
	}{
		{"first category", DomainProtein, "beef", 1},
		{"later category", DomainProtein, "fish", 5},
		{"normalized", DomainProtein, "  FISH ", 5},
		{"unknown value", DomainProtein, "tofu", UnknownIndex},
		{"empty value", DomainProtein, "", UnknownIndex},
		{"unknown domain", "color", "red", UnknownIndex},
		{"wine type", DomainWineType, "sparkling", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Index(tt.domain, tt.value); got != tt.want {
				t.Errorf("Index(%s, %q) = %d, want %d", tt.domain, tt.value, got, tt.want)
			}
		})
	}
}

func TestVocabularyValue(t *testing.T) {
	v := DefaultVocabulary()

	if got, ok := v.Value(DomainSeason, 2); !ok || got != "summer" {
		t.Errorf("Value(season, 2) = %q, %v", got, ok)
	}
	if _, ok := v.Value(DomainSeason, UnknownIndex); ok {
		t.Error("unknown bucket must not reverse-map")
	}
	if _, ok := v.Value(DomainSeason, 99); ok {
		t.Error("out of range index must not reverse-map")
	}
}

func TestVocabularyRoundTrip(t *testing.T) {
	v := DefaultVocabulary()
	for _, domain := range []string{DomainProtein, DomainCuisine, DomainWineType} {
		for i := 1; i <= v.Size(domain); i++ {
			val, ok := v.Value(domain, i)
			if !ok {
				t.Fatalf("%s index %d has no value", domain, i)
			}
			if got := v.Index(domain, val); got != i {
				t.Errorf("%s: Index(Value(%d)) = %d", domain, i, got)
			}
		}
	}
}

func TestVocabularyBlankEntriesKeepIndicesAligned(t *testing.T) {
	v := NewVocabulary("v1", map[string][]string{
		"grape": {"albarino", "   ", "tempranillo", "", "nebbiolo"},
	})

	if got := v.Size("grape"); got != 3 {
		t.Fatalf("Size(grape) = %d, want 3", got)
	}

	wantOrder := []string{"albarino", "tempranillo", "nebbiolo"}
	for i, val := range wantOrder {
		if got := v.Index("grape", val); got != i+1 {
			t.Errorf("Index(grape, %q) = %d, want %d", val, got, i+1)
		}
		rev, ok := v.Value("grape", i+1)
		if !ok || rev != val {
			t.Errorf("Value(grape, %d) = %q, %v, want %q", i+1, rev, ok, val)
		}
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	content := `{
		"version": "v2",
		"categories": {
			"protein": ["beef", "fish"],
			"wine_type": ["red", "white"]
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary() error = %v", err)
	}
	if v.Version != "v2" {
		t.Errorf("Version = %q, want v2", v.Version)
	}
	if got := v.Index(DomainProtein, "fish"); got != 2 {
		t.Errorf("Index(protein, fish) = %d, want 2", got)
	}
}

func TestLoadVocabularyMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	if err := os.WriteFile(path, []byte(`{"categories": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Error("expected error for missing version")
	}
}

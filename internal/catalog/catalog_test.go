package catalog

import (
	"testing"

	"server/internal/domain"
)

func TestDefaultRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	c, ok := r.Lookup(DefaultTextModel)
	if !ok {
		t.Fatalf("Lookup(%q) not found", DefaultTextModel)
	}
	if c.Provider != ProviderXAI {
		t.Fatalf("provider = %q, want %q", c.Provider, ProviderXAI)
	}
	if _, ok := r.Lookup("definitely-not-a-model"); ok {
		t.Fatal("Lookup accepted an unknown model")
	}
}

func TestNewRegistryIgnoresDuplicates(t *testing.T) {
	r := NewRegistry([]Capability{
		{Model: "m1", Provider: ProviderXAI, QualityScore: 5},
		{Model: "m1", Provider: ProviderOpenAI, QualityScore: 9},
		{Model: "m2", Provider: ProviderOpenAI, QualityScore: 7},
	})
	all := r.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	c, _ := r.Lookup("m1")
	if c.Provider != ProviderXAI {
		t.Fatalf("duplicate overwrote first entry: provider = %q", c.Provider)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	all := r.All()
	all[0].Model = "mutated"
	if c := r.All()[0]; c.Model == "mutated" {
		t.Fatal("All() exposed internal storage")
	}
}

func TestDefaultFor(t *testing.T) {
	r := DefaultRegistry()
	cases := []struct {
		task domain.TaskType
		want string
	}{
		{domain.TaskTextGeneration, DefaultTextModel},
		{domain.TaskImageGeneration, DefaultImageModel},
		{domain.TaskVideoGeneration, DefaultVideoModel},
		{domain.TaskAnalysis, DefaultTextModel},
		{domain.TaskCoding, DefaultTextModel},
	}
	for _, tc := range cases {
		if got := r.DefaultFor(tc.task).Model; got != tc.want {
			t.Fatalf("DefaultFor(%s) = %q, want %q", tc.task, got, tc.want)
		}
	}
}

func TestIsAvailableTracksCredentialsOnly(t *testing.T) {
	r := DefaultRegistry()
	creds := Credentials{ProviderXAI: true}

	if !r.IsAvailable(DefaultTextModel, creds) {
		t.Fatal("credentialed provider reported unavailable")
	}
	if r.IsAvailable(DefaultImageModel, creds) {
		t.Fatal("provider without credentials reported available")
	}
	if r.IsAvailable("definitely-not-a-model", creds) {
		t.Fatal("unknown model reported available")
	}
}

func TestByProvider(t *testing.T) {
	r := DefaultRegistry()
	for _, c := range r.ByProvider(ProviderOpenAI) {
		if c.Provider != ProviderOpenAI {
			t.Fatalf("ByProvider returned %q capability", c.Provider)
		}
	}
	if len(r.ByProvider(ProviderOpenAI)) == 0 {
		t.Fatal("expected openai capabilities in default registry")
	}
}

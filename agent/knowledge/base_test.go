package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBrief = `Acme sells industrial widgets across three regions.

Widget churn is rising and leadership is worried about repeat purchases.

Slow delivery and discount dependency are the suspected causes.`

func TestRetrieveMatchesSections(t *testing.T) {
	t.Parallel()

	base := Parse(testBrief)

	got := base.Retrieve("Why are customers leaving due to late deliveries?")
	if !strings.Contains(got, "Slow delivery") {
		t.Fatalf("expected delivery section, got %q", got)
	}
	if strings.Contains(got, "industrial widgets across") {
		t.Fatalf("background section should not match: %q", got)
	}
}

func TestRetrieveJoinsMultipleSections(t *testing.T) {
	t.Parallel()

	base := Parse(testBrief)

	got := base.Retrieve("churn and delivery")
	if !strings.Contains(got, "churn is rising") || !strings.Contains(got, "Slow delivery") {
		t.Fatalf("expected both matching sections, got %q", got)
	}
	if strings.Index(got, "churn is rising") > strings.Index(got, "Slow delivery") {
		t.Fatalf("sections out of document order: %q", got)
	}
}

func TestRetrieveFallsBackToFirstSection(t *testing.T) {
	t.Parallel()

	base := Parse(testBrief)

	got := base.Retrieve("tell me a joke")
	if got != "Acme sells industrial widgets across three regions." {
		t.Fatalf("expected background fallback, got %q", got)
	}
}

func TestRetrieveDeterminism(t *testing.T) {
	t.Parallel()

	base := Parse(testBrief)
	query := "why is churn increasing?"

	first := base.Retrieve(query)
	for i := 0; i < 5; i++ {
		if got := base.Retrieve(query); got != first {
			t.Fatalf("retrieval is not deterministic: %q vs %q", got, first)
		}
	}
}

func TestRetrieveEmptyBase(t *testing.T) {
	t.Parallel()

	if got := Parse("").Retrieve("churn"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	var nilBase *Base
	if got := nilBase.Retrieve("churn"); got != "" {
		t.Fatalf("expected empty result for nil base, got %q", got)
	}
}

func TestStandaloneRetrieve(t *testing.T) {
	t.Parallel()

	got := Retrieve("discount usage", "Discounts are capped.\n\nDelivery is slow.")
	if got != "Discounts are capped." {
		t.Fatalf("unexpected match: %q", got)
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	got := Keywords("Why are our customers leaving due to late deliveries?")
	want := []string{"customer", "leaving", "late", "delivery"}
	if len(got) != len(want) {
		t.Fatalf("unexpected keywords: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keyword %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultBriefSections(t *testing.T) {
	t.Parallel()

	base := Default()
	got := base.Retrieve("what is the delivery problem?")
	if !strings.Contains(got, "delivery experience") {
		t.Fatalf("expected hypotheses section for delivery query, got %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "brief.txt")
	if err := os.WriteFile(path, []byte(testBrief), 0o644); err != nil {
		t.Fatalf("write brief: %v", err)
	}

	base, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := base.Retrieve("discount suspects"); !strings.Contains(got, "discount dependency") {
		t.Fatalf("unexpected retrieval: %q", got)
	}
}

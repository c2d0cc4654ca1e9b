package generator

import (
	"strings"
	"testing"

	"github.com/javelinlab/javelin/internal/catalog"
)

func requestedPair() []catalog.DefectSpec {
	return []catalog.DefectSpec{
		{Kind: catalog.KindCompileTime, Category: "RuntimeErrors", Name: "Null pointer dereference", Description: "deref without check"},
		{Kind: catalog.KindStyle, Category: "CodeQualityChecks", Name: "Magic number", Description: "unexplained literal"},
	}
}

func TestEnrich_LocatesMarkedDefects(t *testing.T) {
	annotated := strings.Join([]string{
		"class Cart {",
		"    // ERROR: [COMPILE_TIME] - Null pointer dereference - items never initialized",
		"    private List<Item> items;",
		"    double total() {",
		"        // ERROR: [STYLE] - Magic number - tax rate is a bare literal",
		"        return subtotal() * 1.08;",
		"    }",
		"}",
	}, "\n")

	enriched := Enrich(annotated, requestedPair())

	if !enriched[0].Found {
		t.Fatal("expected null pointer defect to be located")
	}
	// Marker lines are removed from the clean source, so the located line
	// numbers refer to clean-source positions.
	if enriched[0].LineNumber != 2 {
		t.Errorf("line = %d, want 2", enriched[0].LineNumber)
	}
	if enriched[0].CodeSegment != "private List<Item> items;" {
		t.Errorf("segment = %q", enriched[0].CodeSegment)
	}

	if !enriched[1].Found {
		t.Fatal("expected magic number defect to be located")
	}
	if enriched[1].LineNumber != 4 {
		t.Errorf("line = %d, want 4", enriched[1].LineNumber)
	}
}

func TestEnrich_MissingMarkerIsNotFound(t *testing.T) {
	annotated := "class A {\n    // ERROR: [STYLE] - Magic number - bare literal\n    int x = 7;\n}"
	enriched := Enrich(annotated, requestedPair())

	if enriched[0].Found {
		t.Error("null pointer defect has no marker and must not be found")
	}
	if !enriched[1].Found {
		t.Error("magic number defect should be found")
	}
}

func TestEnrich_KindMismatchDoesNotMatch(t *testing.T) {
	// Marker claims STYLE for a compile-time defect name; the compile-time
	// spec must not claim it.
	annotated := "class A {\n    // ERROR: [STYLE] - Null pointer dereference - wrong tree\n    int x;\n}"
	enriched := Enrich(annotated, []catalog.DefectSpec{
		{Kind: catalog.KindCompileTime, Name: "Null pointer dereference"},
	})
	if enriched[0].Found {
		t.Error("marker in the wrong tree must not satisfy the defect")
	}
}

func TestEnrich_CaseInsensitiveNameMatch(t *testing.T) {
	annotated := "class A {\n    // ERROR: [CHECKSTYLE] - MAGIC NUMBER - shouting\n    int x = 9;\n}"
	enriched := Enrich(annotated, []catalog.DefectSpec{
		{Kind: catalog.KindStyle, Name: "Magic number"},
	})
	if !enriched[0].Found {
		t.Error("name matching must ignore case")
	}
}

func TestEnrich_MarkerClaimedOnce(t *testing.T) {
	annotated := "class A {\n    // ERROR: [STYLE] - Magic number - one marker\n    int x = 9;\n}"
	enriched := Enrich(annotated, []catalog.DefectSpec{
		{Kind: catalog.KindStyle, Name: "Magic number"},
		{Kind: catalog.KindStyle, Name: "Magic number"},
	})
	if !enriched[0].Found {
		t.Error("first spec should claim the marker")
	}
	if enriched[1].Found {
		t.Error("a single marker must not satisfy two requested defects")
	}
}

func TestEnrich_EmptyInputs(t *testing.T) {
	if got := Enrich("", nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
	enriched := Enrich("", requestedPair())
	for _, d := range enriched {
		if d.Found {
			t.Errorf("defect %q found in empty source", d.Name)
		}
	}
}

func TestGroundTruth_Format(t *testing.T) {
	enriched := Enrich("", requestedPair())
	truth := GroundTruth(enriched)

	if len(truth) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(truth))
	}
	want0 := "Compile-Time Defect - Null pointer dereference: deref without check (Category: RuntimeErrors)"
	if truth[0] != want0 {
		t.Errorf("truth[0] = %q\nwant      %q", truth[0], want0)
	}
	if !strings.HasPrefix(truth[1], "Style Defect - Magic number:") {
		t.Errorf("truth[1] = %q", truth[1])
	}
}

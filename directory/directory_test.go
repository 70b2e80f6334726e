// ABOUTME: Tests for the customer directory view-model
// ABOUTME: Covers recency sorting, text/service/date filters, and derivation
package directory

import (
	"testing"

	"github.com/phuongsen/dentdesk/models"
)

func sampleCustomers() []models.Customer {
	return []models.Customer{
		{
			ID: 1, Name: "Nguyễn Văn An", Phone: "0901234567",
			Treatments: []models.Treatment{
				{Service: "Implant", Date: "2024-03-01"},
				{Service: "Thăm khám", Date: "2024-01-15"},
			},
		},
		{
			ID: 2, Name: "Trần Thị Bình", Phone: "0912345678",
			Treatments: []models.Treatment{
				{Service: "Niềng răng", Date: "2024-05-20"},
			},
		},
		{
			ID: 3, Name: "Lê Văn Chi", Phone: "0987654321",
			// No treatments yet.
		},
	}
}

func names(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestRefineSortsByRecency(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{})

	got := names(entries)
	want := []string{"Trần Thị Bình", "Nguyễn Văn An", "Lê Văn Chi"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRefineDerivesFields(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{})

	// An sorts second; check the derivation on it.
	an := entries[1]
	if an.LatestDate != "2024-03-01" {
		t.Errorf("expected latest date 2024-03-01, got %s", an.LatestDate)
	}
	if len(an.Services) != 2 || an.Services[0] != "Implant" {
		t.Errorf("unexpected service tags %v", an.Services)
	}

	// Chi has no treatments and sorts last with empty derivations.
	chi := entries[2]
	if chi.LatestDate != "" || len(chi.Services) != 0 {
		t.Errorf("expected empty derivations, got %q %v", chi.LatestDate, chi.Services)
	}
}

func TestTextFilterMatchesNameCaseInsensitive(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{Text: "bình"})
	if len(entries) != 1 || entries[0].ID != 2 {
		t.Errorf("expected only Bình, got %v", names(entries))
	}

	entries = Refine(sampleCustomers(), Filter{Text: "VĂN"})
	if len(entries) != 2 {
		t.Errorf("expected An and Chi, got %v", names(entries))
	}
}

func TestTextFilterMatchesPhone(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{Text: "0987"})
	if len(entries) != 1 || entries[0].ID != 3 {
		t.Errorf("expected only Chi by phone prefix, got %v", names(entries))
	}
}

func TestServiceFilter(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{Service: "Implant"})
	if len(entries) != 1 || entries[0].ID != 1 {
		t.Errorf("expected only An for Implant, got %v", names(entries))
	}

	entries = Refine(sampleCustomers(), Filter{Service: "Bọc răng sứ"})
	if len(entries) != 0 {
		t.Errorf("expected no matches, got %v", names(entries))
	}
}

func TestDateRangeFilterInclusive(t *testing.T) {
	// Both bounds land exactly on treatment dates.
	entries := Refine(sampleCustomers(), Filter{From: "2024-03-01", To: "2024-05-20"})
	if len(entries) != 2 {
		t.Fatalf("expected An and Bình, got %v", names(entries))
	}

	// A range covering no treatment dates.
	entries = Refine(sampleCustomers(), Filter{From: "2024-03-02", To: "2024-05-19"})
	if len(entries) != 0 {
		t.Errorf("expected no matches, got %v", names(entries))
	}

	// Open-ended lower bound.
	entries = Refine(sampleCustomers(), Filter{To: "2024-02-01"})
	if len(entries) != 1 || entries[0].ID != 1 {
		t.Errorf("expected only An via the January visit, got %v", names(entries))
	}
}

func TestDateFilterExcludesCustomersWithoutTreatments(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{From: "2000-01-01"})
	for _, e := range entries {
		if e.ID == 3 {
			t.Error("customer without treatments must not pass a date filter")
		}
	}
}

func TestCombinedFilters(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{Text: "an", Service: "Implant"})
	if len(entries) != 1 || entries[0].ID != 1 {
		t.Errorf("expected only An, got %v", names(entries))
	}

	entries = Refine(sampleCustomers(), Filter{Text: "an", Service: "Niềng răng"})
	if len(entries) != 0 {
		t.Errorf("conflicting filters should match nothing, got %v", names(entries))
	}
}

func TestAllServices(t *testing.T) {
	entries := Refine(sampleCustomers(), Filter{})
	got := AllServices(entries)
	want := []string{"Implant", "Niềng răng", "Thăm khám"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

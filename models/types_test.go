// ABOUTME: Tests for clinic data models
// ABOUTME: Validates treatment derivation on customers and appointment fields
package models

import (
	"reflect"
	"testing"
)

func TestLatestTreatmentDate(t *testing.T) {
	customer := Customer{
		Name: "Nguyễn Văn An",
		Treatments: []Treatment{
			{Service: "Implant", Date: "2024-03-10"},
			{Service: "Thăm khám", Date: "2024-06-01"},
			{Service: "Niềng răng", Date: "2023-12-25"},
		},
	}

	if got := customer.LatestTreatmentDate(); got != "2024-06-01" {
		t.Errorf("expected latest date 2024-06-01, got %s", got)
	}
}

func TestLatestTreatmentDateEmpty(t *testing.T) {
	customer := Customer{Name: "Trần Thị Bình"}
	if got := customer.LatestTreatmentDate(); got != "" {
		t.Errorf("expected empty date for no treatments, got %q", got)
	}
}

func TestServiceTags(t *testing.T) {
	customer := Customer{
		Treatments: []Treatment{
			{Service: "Implant", Date: "2024-01-01"},
			{Service: "Thăm khám", Date: "2024-02-01"},
			{Service: "Implant", Date: "2024-03-01"},
			{Service: "  ", Date: "2024-04-01"},
		},
	}

	got := customer.ServiceTags()
	want := []string{"Implant", "Thăm khám"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected tags %v, got %v", want, got)
	}
}

func TestTreatmentPersisted(t *testing.T) {
	if (Treatment{Service: "Implant"}).Persisted() {
		t.Error("treatment without ID should not be persisted")
	}
	if !(Treatment{ID: 7, Service: "Implant"}).Persisted() {
		t.Error("treatment with ID should be persisted")
	}
}

func TestServiceCatalog(t *testing.T) {
	want := []string{"Thăm khám", "Implant", "Niềng răng", "Bọc răng sứ"}
	if !reflect.DeepEqual(Services, want) {
		t.Errorf("expected catalog %v, got %v", want, Services)
	}
}

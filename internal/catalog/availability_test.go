package catalog

import (
	"reflect"
	"testing"
)

func fixtureCatalog() []Service {
	return []Service{
		{ID: 1, Name: "Teeth Cleaning", Slots: []string{"09:00", "10:00", "11:00"}},
		{ID: 2, Name: "Whitening", Slots: []string{"13:00", "14:00"}},
	}
}

func TestOpenSlotsNoBookings(t *testing.T) {
	services := fixtureCatalog()

	got := OpenSlots(services, map[string][]string{})

	if !reflect.DeepEqual(got, services) {
		t.Fatalf("expected full catalog back, got %+v", got)
	}
}

func TestOpenSlotsSubtractsBookedSlot(t *testing.T) {
	got := OpenSlots(fixtureCatalog(), map[string][]string{
		"Teeth Cleaning": {"10:00"},
	})

	want := []string{"09:00", "11:00"}
	if !reflect.DeepEqual(got[0].Slots, want) {
		t.Fatalf("expected %v, got %v", want, got[0].Slots)
	}
	// Untouched service keeps its full schedule.
	if !reflect.DeepEqual(got[1].Slots, []string{"13:00", "14:00"}) {
		t.Fatalf("expected Whitening unchanged, got %v", got[1].Slots)
	}
}

func TestOpenSlotsPreservesOrder(t *testing.T) {
	services := []Service{
		{Name: "Fluoride", Slots: []string{"11:00", "09:00", "10:00"}},
	}

	got := OpenSlots(services, map[string][]string{"Fluoride": {"09:00"}})

	want := []string{"11:00", "10:00"}
	if !reflect.DeepEqual(got[0].Slots, want) {
		t.Fatalf("expected catalog order preserved, got %v", got[0].Slots)
	}
}

func TestOpenSlotsFullyBooked(t *testing.T) {
	got := OpenSlots(fixtureCatalog(), map[string][]string{
		"Whitening": {"13:00", "14:00"},
	})

	if len(got[1].Slots) != 0 {
		t.Fatalf("expected no open slots, got %v", got[1].Slots)
	}
}

func TestOpenSlotsDoesNotMutateInput(t *testing.T) {
	services := fixtureCatalog()
	OpenSlots(services, map[string][]string{"Teeth Cleaning": {"09:00", "10:00"}})

	if !reflect.DeepEqual(services[0].Slots, []string{"09:00", "10:00", "11:00"}) {
		t.Fatalf("input catalog was mutated: %v", services[0].Slots)
	}
}

func TestOpenSlotsIgnoresUnknownTreatment(t *testing.T) {
	got := OpenSlots(fixtureCatalog(), map[string][]string{
		"Botox": {"09:00"},
	})

	if !reflect.DeepEqual(got, fixtureCatalog()) {
		t.Fatalf("bookings for unknown treatments must not affect the catalog")
	}
}

package catalog

// OpenSlots returns the catalog with each service's slots reduced to the
// ones not yet booked for the day. booked maps treatment name to the slots
// taken on that date. The input services are not mutated; slot ordering is
// the catalog ordering. A service with no bookings comes back unchanged,
// and an empty booked map returns the full catalog.
func OpenSlots(services []Service, booked map[string][]string) []Service {
	out := make([]Service, 0, len(services))
	for _, svc := range services {
		taken := make(map[string]struct{}, len(booked[svc.Name]))
		for _, slot := range booked[svc.Name] {
			taken[slot] = struct{}{}
		}
		open := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, ok := taken[slot]; !ok {
				open = append(open, slot)
			}
		}
		out = append(out, Service{ID: svc.ID, Name: svc.Name, Slots: open})
	}
	return out
}

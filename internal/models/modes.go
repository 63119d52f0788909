package models

// ModeDisplay maps a GTFS route_type code to a human-readable mode label.
// Codes past the basic set come from the extended European route types that
// regional feeds use.
func ModeDisplay(routeType int) string {
	switch routeType {
	case 0, 900:
		return "Tram"
	case 1, 400:
		return "Metro"
	case 2, 102:
		return "Train"
	case 3, 204, 700, 701:
		return "Bus"
	case 4:
		return "Ferry"
	default:
		return "Transit"
	}
}

package domain

// LocationKind tags a Location as the home endpoint or a store.
type LocationKind uint8

const (
	LocationHome LocationKind = iota
	LocationStore
)

// Reserved display names.
const (
	HomeName         = "HOME"
	NotAvailableName = "NOT_AVAILABLE"
)

// Location identifies one endpoint of a route segment.
//
// Home is a distinct variant rather than a special store value, so two
// locations are equal only when both kind and store name match.
type Location struct {
	Kind  LocationKind
	Store string
}

// Home returns the fixed start/end point of every route.
func Home() Location { return Location{Kind: LocationHome} }

// StoreLocation returns the location for the store with the given name.
func StoreLocation(name string) Location {
	return Location{Kind: LocationStore, Store: name}
}

func (l Location) IsHome() bool { return l.Kind == LocationHome }

// Name returns the store name, or HomeName for home.
func (l Location) Name() string {
	if l.IsHome() {
		return HomeName
	}
	return l.Store
}

func (l Location) String() string { return l.Name() }

package component

// Pickup is an ability item. Collected pickups stop colliding and drawing.
type Pickup struct {
	ID        int
	Kind      string
	Collected bool
}

var PickupComponent = NewComponent[Pickup]()

package component

// KillZone kills the player on overlap.
type KillZone struct{}

var KillZoneComponent = NewComponent[KillZone]()

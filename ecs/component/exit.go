package component

// Exit ends the run on contact. Secret exits stay closed until every secret
// trigger is finished.
type Exit struct {
	Secret    bool
	Triggered bool
}

var ExitComponent = NewComponent[Exit]()

package decoder

// Link identifies one direction of traffic between two stations. Links are
// comparable and used as map keys.
type Link struct {
	Source      string
	Destination string
}

func (l Link) String() string {
	return l.Source + " -> " + l.Destination
}

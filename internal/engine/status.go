package engine

// StatusEntry pairs a selectable ID with the reading-status label it stands
// for. The list itself is supplied externally (config or server); the engine
// only uses it to translate a filter selection into a label.
type StatusEntry struct {
	ID    string
	Label string
}

// StatusList is the ordered reading-status reference list.
type StatusList []StatusEntry

// Resolve translates a selection ID into its status label.
func (l StatusList) Resolve(id string) (string, bool) {
	for _, e := range l {
		if e.ID == id {
			return e.Label, true
		}
	}
	return "", false
}

package resolver

// Compose holds the state of one pending conversation: the search box, the
// current result list, and the ordered selection. Selection never contains
// two participants with the same id.
type Compose struct {
	Query     string
	Results   []Participant
	selection []Participant
}

// Toggle removes the participant if already selected, otherwise appends it.
// Either way the query text and result list are cleared: one pick at a time,
// re-search for the next.
func (c *Compose) Toggle(p Participant) {
	for i, sel := range c.selection {
		if sel.ID == p.ID {
			c.selection = append(c.selection[:i], c.selection[i+1:]...)
			c.reset()
			return
		}
	}
	c.selection = append(c.selection, p)
	c.reset()
}

// Selected reports whether the participant id is currently selected.
func (c *Compose) Selected(id string) bool {
	for _, sel := range c.selection {
		if sel.ID == id {
			return true
		}
	}
	return false
}

// Selection returns a copy of the current selection in pick order.
func (c *Compose) Selection() []Participant {
	out := make([]Participant, len(c.selection))
	copy(out, c.selection)
	return out
}

// Clear empties the whole compose state. Called on submit or close.
func (c *Compose) Clear() {
	c.selection = nil
	c.reset()
}

func (c *Compose) reset() {
	c.Query = ""
	c.Results = nil
}

package resolver

import "testing"

func TestToggleAddsAndRemoves(t *testing.T) {
	var c Compose
	p := Participant{ID: "u1", Name: "Ana", Kind: KindUser}

	c.Toggle(p)
	if !c.Selected("u1") {
		t.Fatal("participant should be selected after first toggle")
	}

	c.Toggle(p)
	if c.Selected("u1") {
		t.Error("toggle applied twice must return to the original set")
	}
	if len(c.Selection()) != 0 {
		t.Errorf("selection = %v, want empty", c.Selection())
	}
}

func TestToggleClearsQueryAndResults(t *testing.T) {
	c := Compose{
		Query:   "an",
		Results: []Participant{{ID: "u1"}, {ID: "u2"}},
	}
	c.Toggle(Participant{ID: "u1", Kind: KindUser})

	if c.Query != "" {
		t.Errorf("Query = %q, want cleared", c.Query)
	}
	if c.Results != nil {
		t.Errorf("Results = %v, want cleared", c.Results)
	}
}

func TestTogglePreservesPickOrder(t *testing.T) {
	var c Compose
	c.Toggle(Participant{ID: "u1", Kind: KindUser})
	c.Toggle(Participant{ID: "u2", Kind: KindUser})
	c.Toggle(Participant{ID: "u3", Kind: KindUser})
	c.Toggle(Participant{ID: "u2", Kind: KindUser}) // remove the middle pick

	sel := c.Selection()
	if len(sel) != 2 || sel[0].ID != "u1" || sel[1].ID != "u3" {
		t.Errorf("selection = %v, want [u1 u3]", sel)
	}
}

func TestSelectionReturnsCopy(t *testing.T) {
	var c Compose
	c.Toggle(Participant{ID: "u1", Kind: KindUser})

	sel := c.Selection()
	sel[0].ID = "mutated"

	if !c.Selected("u1") {
		t.Error("mutating the returned slice must not affect internal state")
	}
}

func TestClear(t *testing.T) {
	c := Compose{Query: "q", Results: []Participant{{ID: "x"}}}
	c.Toggle(Participant{ID: "u1", Kind: KindUser})
	c.Clear()

	if len(c.Selection()) != 0 || c.Query != "" || c.Results != nil {
		t.Errorf("Clear() left state behind: %+v", c)
	}
}

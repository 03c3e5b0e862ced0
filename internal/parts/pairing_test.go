package parts

import "testing"

func TestPairingTable(t *testing.T) {
	t.Parallel()

	cl := testClassifier(t).Classify([]Mesh{
		{Name: "boton1"},
		{Name: "aro1"},
		{Name: "boton2"},
		{Name: "aro12"},
		{Name: "aro3"},
	})

	if c, ok := cl.Pairs.FindCompanion("boton1"); !ok || c.Name != "aro1" {
		t.Fatalf("FindCompanion(boton1)=%v,%v want aro1", c.Name, ok)
	}
	if p, ok := cl.Pairs.FindPrimary("aro1"); !ok || p.Name != "boton1" {
		t.Fatalf("FindPrimary(aro1)=%v,%v want boton1", p.Name, ok)
	}
	if _, ok := cl.Pairs.FindCompanion("boton2"); ok {
		t.Fatalf("boton2 has no ring")
	}
	if _, ok := cl.Pairs.FindPrimary("aro3"); ok {
		t.Fatalf("aro3 is an orphan")
	}
	if !cl.Pairs.IsCompanion(Ring) || cl.Pairs.IsCompanion(Button) {
		t.Fatalf("IsCompanion mismatch")
	}
}

func TestPairingFirstInTraversalOrder(t *testing.T) {
	t.Parallel()

	cl := testClassifier(t).Classify([]Mesh{
		{Name: "boton4"},
		{Name: "aro4_outer"},
		{Name: "aro4_inner"},
	})

	if c, _ := cl.Pairs.FindCompanion("boton4"); c.Name != "aro4_outer" {
		t.Fatalf("companion=%q want aro4_outer", c.Name)
	}
}

func TestNilTable(t *testing.T) {
	t.Parallel()

	var tbl *Table
	if _, ok := tbl.FindCompanion("boton1"); ok {
		t.Fatalf("nil table found a companion")
	}
}

package configurator

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/record"
)

type fakeSurface struct {
	colors     map[string]palette.Color
	highlights map[string]bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{colors: map[string]palette.Color{}, highlights: map[string]bool{}}
}

func (f *fakeSurface) SetMaterial(part string, m Material) { f.colors[part] = m.Color }
func (f *fakeSurface) SetColor(part string, c palette.Color) { f.colors[part] = c }
func (f *fakeSurface) SetHighlight(part string, on bool) {
	if on {
		f.highlights[part] = true
		return
	}
	delete(f.highlights, part)
}

func (f *fakeSurface) lit() []string {
	out := []string{}
	for name := range f.highlights {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

type fakeListener struct {
	records []*record.Record
	notices []string
}

func (f *fakeListener) RecordChanged(rec *record.Record) { f.records = append(f.records, rec) }
func (f *fakeListener) Notice(msg string)                { f.notices = append(f.notices, msg) }

type fakeCamera struct {
	token uint64
	views []parts.View
}

func (f *fakeCamera) MoveTo(v parts.View) uint64 {
	f.token++
	f.views = append(f.views, v)
	return f.token
}

func (f *fakeCamera) Settle(token uint64) bool { return token == f.token }

var (
	rojo     = palette.Color{R: 0xE5, G: 0x24, B: 0x21}
	azul     = palette.Color{R: 0x32, G: 0x5E, B: 0xB7}
	negro    = palette.Color{R: 0x1C, G: 0x1C, B: 0x1C}
	rosa     = palette.Color{R: 0xFF, G: 0x00, B: 0x7F}
	amarillo = palette.Color{R: 0xF3, G: 0xE6, B: 0x00}
)

type harness struct {
	c        *Configurator
	surface  *fakeSurface
	listener *fakeListener
	camera   *fakeCamera
}

func newHarness(t *testing.T, orphan OrphanRing) *harness {
	t.Helper()

	swatches := palette.Palette{
		{Name: "Rojo", Value: rojo},
		{Name: "Azul", Value: azul},
		{Name: "Negro", Value: negro},
		{Name: "Rosa", Value: rosa},
		{Name: "Amarillo", Value: amarillo},
	}
	reg, err := palette.NewRegistry(map[string]palette.Palette{
		"chassis": swatches,
		"buttons": swatches,
		"knobs":   swatches,
		"faders":  swatches,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	cls, err := parts.NewClassifier([]parts.Rule{
		{Category: parts.Chassis, Contains: []string{"chasis"}, Default: "Azul"},
		{Category: parts.Button, Contains: []string{"boton"}, Default: "Amarillo"},
		{Category: parts.Ring, Contains: []string{"aro"}, Default: "Negro"},
		{Category: parts.Knob, Prefixes: []string{"knob1_"}, Default: "Rosa", MaxLightness: 0.5},
		{Category: parts.Fader, Pattern: `fader[_-]?(\d+)`, Index: &parts.Range{Min: 1, Max: 8}, Default: "Rosa"},
	}, []parts.Pairing{{Primary: parts.Button, Companion: parts.Ring}})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	h := &harness{surface: newFakeSurface(), listener: &fakeListener{}, camera: &fakeCamera{}}
	h.c = New(Options{
		Product:    "mixo",
		Palettes:   reg,
		OrphanRing: orphan,
		Surface:    h.surface,
		Camera:     h.camera,
		Listener:   h.listener,
	})
	h.c.Load(cls.Classify([]parts.Mesh{
		{Name: "cubeChasis"},
		{Name: "lateralChasis"},
		{Name: "boton1"},
		{Name: "aro1"},
		{Name: "boton2"},
		{Name: "aro9"},
		{Name: "knob1_a"},
		{Name: "fader1_1"},
	}))

	return h
}

func (h *harness) view(t *testing.T, v parts.View) {
	t.Helper()

	if _, err := h.c.ChangeView(v); err != nil {
		t.Fatalf("ChangeView(%s): %v", v, err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	if h.surface.colors["boton1"] != amarillo || h.surface.colors["cubeChasis"] != azul {
		t.Fatalf("default materials not applied: %v", h.surface.colors)
	}
	if len(h.listener.records) != 1 {
		t.Fatalf("records pushed=%d want 1", len(h.listener.records))
	}
}

func TestSingleSelectApplyPaintsCompanion(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewButtons)

	h.c.Click("boton1", false)
	if !reflect.DeepEqual(h.surface.lit(), []string{"boton1"}) {
		t.Fatalf("highlighted=%v want [boton1]", h.surface.lit())
	}

	if err := h.c.ApplySwatch("Rojo"); err != nil {
		t.Fatalf("ApplySwatch: %v", err)
	}

	rec := h.c.Record()
	for _, name := range []string{"boton1", "aro1"} {
		if got, _ := rec.Color(name); got != "Rojo" {
			t.Fatalf("record[%s]=%q want Rojo", name, got)
		}
		if h.surface.colors[name] != rojo {
			t.Fatalf("%s color=%v want %v", name, h.surface.colors[name], rojo)
		}
	}
	if len(h.surface.lit()) != 0 {
		t.Fatalf("highlight not cleared: %v", h.surface.lit())
	}
}

func TestApplyIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewKnobs)
	h.c.Click("knob1_a", false)

	if err := h.c.ApplyColor("Rojo", rojo); err != nil {
		t.Fatalf("ApplyColor: %v", err)
	}
	once := h.c.Record()
	colors := map[string]palette.Color{}
	for k, v := range h.surface.colors {
		colors[k] = v
	}

	if err := h.c.ApplyColor("Rojo", rojo); err != nil {
		t.Fatalf("ApplyColor again: %v", err)
	}
	if !once.Equal(h.c.Record()) {
		t.Fatalf("record changed: %s vs %s", once, h.c.Record())
	}
	if !reflect.DeepEqual(colors, h.surface.colors) {
		t.Fatalf("visual state changed")
	}
}

func TestChassisApplyPaintsEveryChassisPart(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewChassis)

	sel := h.c.Selection()
	if sel.Mode != SingleActive || sel.Parts[0] != "cubeChasis" {
		t.Fatalf("chassis auto-select=%+v", sel)
	}
	if len(h.surface.lit()) != 0 {
		t.Fatalf("chassis auto-select highlighted %v", h.surface.lit())
	}

	if err := h.c.ApplySwatch("Negro"); err != nil {
		t.Fatalf("ApplySwatch: %v", err)
	}
	if h.surface.colors["cubeChasis"] != negro || h.surface.colors["lateralChasis"] != negro {
		t.Fatalf("chassis parts differ: %v", h.surface.colors)
	}
	if h.c.Record().Chassis() != "Negro" {
		t.Fatalf("chassis=%q want Negro", h.c.Record().Chassis())
	}
}

func TestNothingSelected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewButtons)
	before := h.c.Record()
	pushed := len(h.listener.records)

	err := h.c.ApplySwatch("Rojo")
	if !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("err=%v want ErrNothingSelected", err)
	}
	if !before.Equal(h.c.Record()) || len(h.listener.records) != pushed {
		t.Fatalf("record mutated without selection")
	}
	if len(h.listener.notices) != 1 || h.listener.notices[0] != NoticeNothingSelected {
		t.Fatalf("notices=%v", h.listener.notices)
	}
}

func TestExtendToggle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewButtons)

	h.c.Click("boton1", true)
	h.c.Click("boton2", true)
	if sel := h.c.Selection(); sel.Mode != MultiActive || !reflect.DeepEqual(sel.Parts, []string{"boton1", "boton2"}) {
		t.Fatalf("selection=%+v want multi [boton1 boton2]", sel)
	}

	h.c.Click("boton1", true)
	if sel := h.c.Selection(); sel.Mode != MultiActive || !reflect.DeepEqual(sel.Parts, []string{"boton2"}) {
		t.Fatalf("selection=%+v want multi [boton2]", sel)
	}

	h.c.Click("boton2", true)
	if sel := h.c.Selection(); sel.Mode != Empty {
		t.Fatalf("selection=%+v want empty", sel)
	}
}

func TestHighlightMatchesMultiSet(t *testing.T) {
	t.Parallel()

	sequences := [][]string{
		{"boton1", "boton2", "boton1"},
		{"boton1", "boton1", "boton2", "aro1"},
		{"aro1", "boton2", "aro1", "boton2", "boton1"},
	}

	for i, seq := range sequences {
		seq := seq
		t.Run(string(rune('a'+i)), func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, OrphanIgnore)
			h.view(t, parts.ViewButtons)
			for _, name := range seq {
				h.c.Click(name, true)
			}

			sel := h.c.Selection()
			if !reflect.DeepEqual(sel.Parts, h.surface.lit()) {
				t.Fatalf("selection=%v highlighted=%v", sel.Parts, h.surface.lit())
			}
		})
	}
}

func TestSingleThenExtend(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewButtons)

	h.c.Click("boton1", false)
	h.c.Click("boton2", true)

	sel := h.c.Selection()
	if sel.Mode != MultiActive || !reflect.DeepEqual(sel.Parts, []string{"boton1", "boton2"}) {
		t.Fatalf("selection=%+v want multi [boton1 boton2]", sel)
	}

	if err := h.c.ApplySwatch("Rosa"); err != nil {
		t.Fatalf("ApplySwatch: %v", err)
	}
	if h.c.Selection().Mode != Empty || len(h.surface.lit()) != 0 {
		t.Fatalf("multi selection not cleared after apply")
	}
	if got, _ := h.c.Record().Color("aro1"); got != "Rosa" {
		t.Fatalf("aro1=%q want Rosa", got)
	}
}

func TestRingClicks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		orphan OrphanRing
		click  string
		want   Selection
	}{
		{"paired ring selects button", OrphanIgnore, "aro1", Selection{Mode: SingleActive, View: parts.ViewButtons, Parts: []string{"boton1"}}},
		{"orphan ignored", OrphanIgnore, "aro9", Selection{Mode: Empty, Parts: []string{}}},
		{"orphan selected", OrphanSelect, "aro9", Selection{Mode: SingleActive, View: parts.ViewButtons, Parts: []string{"aro9"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, tt.orphan)
			h.view(t, parts.ViewButtons)
			h.c.Click(tt.click, false)

			if got := h.c.Selection(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("selection=%+v want %+v", got, tt.want)
			}
		})
	}
}

func TestMissAndForeignBucketClear(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewKnobs)

	h.c.Click("knob1_a", false)
	res := h.c.Click("boton1", false)
	if !res.Changed || h.c.Selection().Mode != Empty {
		t.Fatalf("foreign bucket hit did not clear: %+v", res)
	}

	h.c.Click("knob1_a", true)
	h.c.Click("", false)
	if h.c.Selection().Mode != Empty || len(h.surface.lit()) != 0 {
		t.Fatalf("miss did not clear")
	}
}

func TestNormalViewInert(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)

	res := h.c.Click("boton1", false)
	if res.Hit != "boton1" || res.Changed || h.c.Selection().Mode != Empty {
		t.Fatalf("normal view click=%+v", res)
	}
	if res := h.c.Click("knob1_a", false); res.Hit != "" {
		t.Fatalf("normal view hit knob: %+v", res)
	}
}

func TestChangeViewClearsAndTokens(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)
	h.view(t, parts.ViewButtons)
	h.c.Click("boton1", true)
	h.c.Click("boton2", true)

	first, _ := h.c.ChangeView(parts.ViewKnobs)
	second, _ := h.c.ChangeView("chasis")

	if h.c.View() != parts.ViewChassis {
		t.Fatalf("view=%s want chassis", h.c.View())
	}
	if len(h.surface.lit()) != 0 {
		t.Fatalf("highlights survived view change: %v", h.surface.lit())
	}
	if h.c.SettleCamera(first) {
		t.Fatalf("stale token honored")
	}
	if !h.c.SettleCamera(second) {
		t.Fatalf("latest token ignored")
	}
	if _, err := h.c.ChangeView("top"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("err=%v want ErrUnknownView", err)
	}
}

func TestRestore(t *testing.T) {
	t.Parallel()

	h := newHarness(t, OrphanIgnore)

	saved := record.New("mixo")
	saved.SetChassis("Rojo")
	saved.Set("buttons", "boton2", "Rosa")
	saved.Set("buttons", "ghost", "Rosa")
	saved.Set("knobs", "knob1_a", "Violeta")

	if _, err := h.c.Restore(parts.ViewFaders, saved); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	rec := h.c.Record()
	if rec.Chassis() != "Rojo" || h.surface.colors["lateralChasis"] != rojo {
		t.Fatalf("chassis not restored")
	}
	if got, _ := rec.Color("boton2"); got != "Rosa" {
		t.Fatalf("boton2=%q want Rosa", got)
	}
	if _, ok := rec.Color("ghost"); ok {
		t.Fatalf("unknown part restored")
	}
	if got, _ := rec.Color("knob1_a"); got != "Rosa" {
		t.Fatalf("knob1_a=%q want default Rosa", got)
	}
	if h.c.View() != parts.ViewFaders {
		t.Fatalf("view=%s want faders", h.c.View())
	}
}

func TestNotLoaded(t *testing.T) {
	t.Parallel()

	c := New(Options{Product: "beato"})
	if res := c.Click("boton1", false); res.Changed {
		t.Fatalf("click before load changed selection")
	}
	if err := c.ApplyColor("Rojo", rojo); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("err=%v want ErrNotLoaded", err)
	}
}

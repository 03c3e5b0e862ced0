package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/woozymasta/beato-configurator/internal/camera"
	"github.com/woozymasta/beato-configurator/internal/checkout"
	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/record"
	"github.com/woozymasta/beato-configurator/internal/store"
)

type fakePub struct {
	mu       sync.Mutex
	retained []any
	sent     []any
}

func (f *fakePub) Retain(_ string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retained = append(f.retained, v)
	return nil
}

func (f *fakePub) Broadcast(_ string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, v)
	return nil
}

func testDefinition(model string) product.Definition {
	colors := palette.Palette{
		{Name: "Azul", Value: palette.Color{R: 0x32, G: 0x5E, B: 0xB7}},
		{Name: "Rojo", Value: palette.Color{R: 0xE5, G: 0x24, B: 0x21}},
		{Name: "Negro", Value: palette.Color{R: 0x1C, G: 0x1C, B: 0x1C}},
	}

	return product.Definition{
		Name:      "mixo",
		Title:     "Mixo",
		ProductID: "p-1",
		Package:   "Paquete Pro",
		Model:     model,
		Views:     []parts.View{parts.ViewNormal, parts.ViewChassis, parts.ViewButtons},
		Rules: []parts.Rule{
			{Category: parts.Chassis, Contains: []string{"cubechasis"}, Default: "Azul"},
			{Category: parts.Button, Contains: []string{"boton"}, Default: "Negro"},
			{Category: parts.Ring, Contains: []string{"aro"}, Default: "Negro"},
		},
		Pairings: []parts.Pairing{{Primary: parts.Button, Companion: parts.Ring}},
		Palettes: map[string]palette.Palette{"chassis": colors, "buttons": colors},
		Cameras:  map[string]camera.Pose{camera.PoseNormal: {}, camera.PoseTop: {}},
		SpecFields: []product.SpecField{
			{View: parts.ViewChassis, Label: "Chasis"},
			{View: parts.ViewButtons, Label: "Botones"},
		},
	}
}

var testMeshes = []parts.Mesh{{Name: "cubeChasis"}, {Name: "boton1"}, {Name: "aro1"}, {Name: "boton2"}}

func newManager(t *testing.T, def product.Definition, st store.Store) (*Manager, *fakePub) {
	t.Helper()

	cat, err := product.NewCatalog([]product.Definition{def})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	pub := &fakePub{}

	return NewManager(cat, st, pub, slog.New(slog.NewTextHandler(io.Discard, nil))), pub
}

func newStore(t *testing.T) store.Store {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	return st
}

func TestSessionFlowAndRehydrate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore(t)
	m, pub := newManager(t, testDefinition(""), st)

	s, err := m.Get(ctx, "mixo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.State().Loaded {
		t.Fatalf("loaded without model")
	}

	s.Classify(ctx, testMeshes)
	if _, _, err := s.ChangeView(ctx, parts.ViewButtons); err != nil {
		t.Fatalf("ChangeView: %v", err)
	}
	if _, err := s.Click("aro1", false); err != nil {
		t.Fatalf("Click: %v", err)
	}
	state, err := s.ApplyColor("Rojo")
	if err != nil {
		t.Fatalf("ApplyColor: %v", err)
	}
	if got, _ := state.Record.Color("aro1"); got != "Rojo" {
		t.Fatalf("aro1=%q want Rojo", got)
	}

	last, ok := pub.retained[len(pub.retained)-1].(*record.Record)
	if !ok || !last.Equal(state.Record) {
		t.Fatalf("last broadcast record mismatch")
	}

	// a fresh manager over the same store rehydrates the view and record
	m2, _ := newManager(t, testDefinition(""), st)
	s2, err := m2.Get(ctx, "mixo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	restored := s2.Classify(ctx, testMeshes)
	if restored.View != parts.ViewButtons {
		t.Fatalf("view=%s want buttons", restored.View)
	}
	if !restored.Record.Equal(state.Record) {
		t.Fatalf("record=%s want %s", restored.Record, state.Record)
	}
}

func TestSessionNothingSelected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pub := newManager(t, testDefinition(""), newStore(t))
	s, _ := m.Get(ctx, "mixo")
	s.Classify(ctx, testMeshes)
	if _, _, err := s.ChangeView(ctx, parts.ViewButtons); err != nil {
		t.Fatalf("ChangeView: %v", err)
	}

	if _, err := s.ApplyColor("Rojo"); !errors.Is(err, configurator.ErrNothingSelected) {
		t.Fatalf("err=%v want ErrNothingSelected", err)
	}

	if len(pub.sent) != 1 {
		t.Fatalf("sent=%d want 1 notice", len(pub.sent))
	}
	if n, ok := pub.sent[0].(Notice); !ok || n.Type != TypeNotice {
		t.Fatalf("sent=%+v", pub.sent[0])
	}
}

func TestSessionRejectsForeignView(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t, testDefinition(""), newStore(t))
	s, _ := m.Get(ctx, "mixo")

	if _, _, err := s.ChangeView(ctx, parts.ViewFaders); !errors.Is(err, configurator.ErrUnknownView) {
		t.Fatalf("err=%v want ErrUnknownView", err)
	}
	if _, _, err := s.ChangeView(ctx, "chasis"); err != nil {
		t.Fatalf("ChangeView(chasis): %v", err)
	}
}

func TestSessionCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pub := newManager(t, testDefinition(""), newStore(t))
	s, _ := m.Get(ctx, "mixo")
	s.Classify(ctx, testMeshes)

	cart, err := s.AddToCart()
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	want := "Chasis: Azul, Botones: Negro, Negro, Negro"
	if got := cart.Options.CustomTextFields[0].Value; got != want {
		t.Fatalf("spec=%q want %q", got, want)
	}
	if _, ok := pub.sent[len(pub.sent)-1].(checkout.AddToCart); !ok {
		t.Fatalf("cart not broadcast")
	}
}

func TestSessionLoadsModelFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "mixo.gltf")
	doc := `{"scenes":[{"nodes":[0,1]}],"nodes":[{"name":"cubeChasis","mesh":0},{"name":"boton1","mesh":0}],"meshes":[{"primitives":[{}]}]}`
	if err := os.WriteFile(model, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, _ := newManager(t, testDefinition(model), newStore(t))
	s, err := m.Get(context.Background(), "mixo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st := s.State(); !st.Loaded || len(st.Parts) != 2 {
		t.Fatalf("state=%+v", st)
	}
}

func TestSessionBrokenModel(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t, testDefinition(filepath.Join(t.TempDir(), "missing.glb")), newStore(t))
	s, err := m.Get(context.Background(), "mixo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := s.Click("boton1", false); !errors.Is(err, configurator.ErrNotLoaded) {
		t.Fatalf("err=%v want ErrNotLoaded", err)
	}
}

func TestManagerDropOnCatalogChange(t *testing.T) {
	t.Parallel()

	def := testDefinition("")
	cat, err := product.NewCatalog([]product.Definition{def})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	m := NewManager(cat, newStore(t), &fakePub{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	a, _ := m.Get(context.Background(), "mixo")
	if err := cat.Replace([]product.Definition{def}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	b, _ := m.Get(context.Background(), "mixo")
	if a == b {
		t.Fatalf("session not rebuilt after catalog change")
	}
}

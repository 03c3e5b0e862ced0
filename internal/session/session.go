// Package session runs one configurator per product and fans record changes out
// to the client store and the broadcast hub.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/woozymasta/beato-configurator/internal/camera"
	"github.com/woozymasta/beato-configurator/internal/checkout"
	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/glb"
	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/record"
	"github.com/woozymasta/beato-configurator/internal/scene"
	"github.com/woozymasta/beato-configurator/internal/store"
)

// TypeNotice tags user notices sent to the page.
const TypeNotice = "notice"

// saveTimeout bounds store writes triggered by record changes.
const saveTimeout = 5 * time.Second

// Publisher delivers messages to the embedding page.
type Publisher interface {
	Retain(product string, v any) error
	Broadcast(product string, v any) error
}

// Notice is a user-facing message.
type Notice struct {
	Type    string `json:"type"`
	Product string `json:"product"`
	Message string `json:"message"`
}

// State is the public view of a session.
type State struct {
	Product      string                 `json:"product"`
	Title        string                 `json:"title"`
	Loaded       bool                   `json:"loaded"`
	View         parts.View             `json:"view"`
	Views        []parts.View           `json:"views"`
	Selection    configurator.Selection `json:"selection"`
	Record       *record.Record         `json:"record"`
	Palette      palette.Palette        `json:"palette"`
	Camera       camera.State           `json:"camera"`
	Highlighted  []string               `json:"highlighted"`
	Parts        []parts.Part           `json:"parts"`
	Fixed        []string               `json:"fixed"`
	Unclassified []string               `json:"unclassified"`
}

// Session is the configurator of one product. All methods are safe for concurrent use;
// mutations are serialized.
type Session struct {
	mu sync.Mutex

	def        product.Definition
	classifier *parts.Classifier
	cfg        *configurator.Configurator
	scene      *scene.Scene
	rig        *camera.Rig

	store store.Store
	pub   Publisher
	log   *slog.Logger

	quiet bool // suppress store writes while loading
}

// newSession builds the configurator of a definition. The model is not loaded.
func newSession(def product.Definition, st store.Store, pub Publisher, log *slog.Logger) (*Session, error) {
	reg, err := def.Registry()
	if err != nil {
		return nil, err
	}
	cls, err := def.Classifier()
	if err != nil {
		return nil, err
	}
	rig, err := def.Rig()
	if err != nil {
		return nil, err
	}
	orphan, err := configurator.ParseOrphanRing(string(def.OrphanRing))
	if err != nil {
		return nil, err
	}

	s := &Session{
		def:        def,
		classifier: cls,
		scene:      scene.New(),
		rig:        rig,
		store:      st,
		pub:        pub,
		log:        log.With("product", def.Name),
	}
	s.cfg = configurator.New(configurator.Options{
		Product:    def.Name,
		Palettes:   reg,
		OrphanRing: orphan,
		Surface:    s.scene,
		Camera:     rig,
		Listener:   s,
	})

	return s, nil
}

// Product returns the product name.
func (s *Session) Product() string {
	return s.def.Name
}

// Scene returns the scene of the session.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// loadModelLocked reads and classifies the model file of the definition.
// A failure leaves the session non-interactive. Caller holds the lock.
func (s *Session) loadModelLocked(ctx context.Context) {
	if s.def.Model == "" {
		s.log.Info("no model configured, waiting for classify")
		return
	}

	meshes, err := glb.ReadFile(s.def.Model)
	if err != nil {
		s.log.Error("model load failed", "model", s.def.Model, "err", err)
		return
	}

	s.classifyLocked(ctx, meshes)
}

// Classify replaces the model with named meshes and rehydrates the saved state.
func (s *Session) Classify(ctx context.Context, meshes []parts.Mesh) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.classifyLocked(ctx, meshes)

	return s.stateLocked()
}

// classifyLocked classifies meshes, applies defaults and restores the persisted snapshot.
func (s *Session) classifyLocked(ctx context.Context, meshes []parts.Mesh) {
	cl := s.classifier.Classify(meshes)
	s.log.Info("model classified",
		"parts", len(cl.Parts),
		"fixed", len(cl.Fixed),
		"unclassified", len(cl.Unclassified),
	)
	if len(cl.Unclassified) > 0 {
		s.log.Debug("unclassified meshes", "names", cl.Unclassified)
	}

	s.scene.Reset()

	snap, err := s.store.Load(ctx, s.def.Name)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		s.log.Warn("load snapshot failed", "err", err)
	}

	s.quiet = true
	s.cfg.Load(cl)
	if err == nil && snap.Record != nil {
		view := snap.View
		if !s.def.HasView(view) {
			view = parts.ViewNormal
		}
		if _, rerr := s.cfg.Restore(view, snap.Record); rerr != nil {
			s.log.Warn("restore failed", "err", rerr)
		}
	}
	s.quiet = false

	s.persist(ctx)
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

// stateLocked builds the state. Caller holds the lock.
func (s *Session) stateLocked() State {
	st := State{
		Product:     s.def.Name,
		Title:       s.def.Title,
		View:        s.cfg.View(),
		Views:       s.def.Views,
		Selection:   s.cfg.Selection(),
		Record:      s.cfg.Record(),
		Palette:     s.cfg.Palette(),
		Camera:      s.rig.State(),
		Highlighted: s.scene.Highlighted(),
	}

	if cl := s.cfg.Classification(); !cl.Empty() {
		st.Loaded = true
		st.Parts = cl.Parts
		st.Fixed = cl.Fixed
		st.Unclassified = cl.Unclassified
	}

	return st
}

// ChangeView switches the editing view and persists it. It returns the camera token.
func (s *Session) ChangeView(ctx context.Context, v parts.View) (uint64, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, ok := parts.ParseView(string(v))
	if !ok || !s.def.HasView(parsed) {
		return 0, State{}, fmt.Errorf("%w: %q for %s", configurator.ErrUnknownView, v, s.def.Name)
	}

	token, err := s.cfg.ChangeView(parsed)
	if err != nil {
		return 0, State{}, err
	}
	s.persist(ctx)

	return token, s.stateLocked(), nil
}

// Click handles a ray-test hit.
func (s *Session) Click(part string, extend bool) (configurator.ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Classification().Empty() {
		return configurator.ClickResult{}, configurator.ErrNotLoaded
	}

	return s.cfg.Click(part, extend), nil
}

// ApplyColor applies a swatch of the active view by name.
func (s *Session) ApplyColor(name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cfg.ApplySwatch(name); err != nil {
		return State{}, err
	}

	return s.stateLocked(), nil
}

// SettleCamera reports a finished camera move.
func (s *Session) SettleCamera(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.SettleCamera(token)
}

// AddToCart builds the cart payload and broadcasts it.
func (s *Session) AddToCart() (checkout.AddToCart, error) {
	s.mu.Lock()
	cart := checkout.Cart(s.def, s.cfg.Record())
	s.mu.Unlock()

	if err := s.pub.Broadcast(s.def.Name, cart); err != nil {
		return cart, fmt.Errorf("broadcast cart: %w", err)
	}

	return cart, nil
}

// RecordChanged pushes the record to the page and the store.
func (s *Session) RecordChanged(rec *record.Record) {
	if err := s.pub.Retain(s.def.Name, rec); err != nil {
		s.log.Warn("broadcast record failed", "err", err)
	}
	if s.quiet {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	s.persist(ctx)
}

// Notice forwards a user notice to the page.
func (s *Session) Notice(msg string) {
	if err := s.pub.Broadcast(s.def.Name, Notice{Type: TypeNotice, Product: s.def.Name, Message: msg}); err != nil {
		s.log.Warn("broadcast notice failed", "err", err)
	}
}

// persist saves the current view and record.
func (s *Session) persist(ctx context.Context) {
	if s.cfg.Classification().Empty() {
		return
	}

	err := s.store.Save(ctx, store.Snapshot{
		Product: s.def.Name,
		View:    s.cfg.View(),
		Record:  s.cfg.Record(),
	})
	if err != nil {
		s.log.Warn("save snapshot failed", "err", err)
	}
}

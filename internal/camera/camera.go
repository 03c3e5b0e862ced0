// Package camera holds view poses and tweens the camera between them.
package camera

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/woozymasta/beato-configurator/internal/parts"
)

// Duration is the length of a view transition.
const Duration = 1200 * time.Millisecond

// Pose names used by product definitions.
const (
	PoseNormal = "normal" // overview, orbit enabled
	PoseTop    = "top"    // editing views
)

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position r3.Vec `json:"position"`
	Target   r3.Vec `json:"target"`
}

// Lerp interpolates between two poses.
func Lerp(a, b Pose, t float64) Pose {
	return Pose{
		Position: r3.Add(a.Position, r3.Scale(t, r3.Sub(b.Position, a.Position))),
		Target:   r3.Add(a.Target, r3.Scale(t, r3.Sub(b.Target, a.Target))),
	}
}

// EaseInOut is the power3 in-out curve (quartic) on 0..1.
func EaseInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 8 * t * t * t * t
	default:
		return 1 - math.Pow(-2*t+2, 4)/2
	}
}

// State is a snapshot of the rig.
type State struct {
	Pose   Pose      `json:"pose"`
	View   string    `json:"view"`
	Orbit  bool      `json:"orbit"`
	Moving bool      `json:"moving"`
	Token  uint64    `json:"token"`
	Since  time.Time `json:"since"`
}

// Rig tracks the current pose and at most one running tween.
// A new move supersedes the running one; only the latest token completes.
type Rig struct {
	mu    sync.Mutex
	poses map[string]Pose
	now   func() time.Time

	pose   Pose
	from   Pose
	to     Pose
	start  time.Time
	moving bool
	view   string
	orbit  bool
	token  uint64
}

// NewRig builds a rig from named poses. The "normal" pose is required and is the start pose.
func NewRig(poses map[string]Pose) (*Rig, error) {
	normal, ok := poses[PoseNormal]
	if !ok {
		return nil, fmt.Errorf("camera: missing %q pose", PoseNormal)
	}

	r := &Rig{
		poses: make(map[string]Pose, len(poses)),
		now:   time.Now,
		pose:  normal,
		view:  string(parts.ViewNormal),
		orbit: true,
	}
	for k, v := range poses {
		r.poses[k] = v
	}

	return r, nil
}

// WithClock replaces the time source. Used by tests.
func (r *Rig) WithClock(now func() time.Time) *Rig {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()

	return r
}

// PoseFor returns the pose of a view: its own pose, else "top" for editing views, else "normal".
func (r *Rig) PoseFor(v parts.View) Pose {
	if p, ok := r.poses[string(v)]; ok {
		return p
	}
	if v.Editable() {
		if p, ok := r.poses[PoseTop]; ok {
			return p
		}
	}

	return r.poses[PoseNormal]
}

// MoveTo starts a tween to the view pose and returns its token.
// Orbit is enabled only in the normal view.
func (r *Rig) MoveTo(v parts.View) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(r.now())
	r.from = r.pose
	r.to = r.PoseFor(v)
	r.start = r.now()
	r.moving = true
	r.view = string(v)
	r.orbit = v == parts.ViewNormal
	r.token++

	return r.token
}

// Advance interpolates the running tween up to now and returns the current pose.
func (r *Rig) Advance(now time.Time) Pose {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(now)

	return r.pose
}

// advance updates the pose. Caller holds the lock.
func (r *Rig) advance(now time.Time) {
	if !r.moving {
		return
	}

	t := float64(now.Sub(r.start)) / float64(Duration)
	if t >= 1 {
		r.pose = r.to
		r.moving = false
		return
	}

	r.pose = Lerp(r.from, r.to, EaseInOut(t))
}

// Settle completes the tween of token. Stale tokens are ignored and return false.
func (r *Rig) Settle(token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == 0 || token != r.token {
		return false
	}

	if r.moving {
		r.pose = r.to
		r.moving = false
	}

	return true
}

// State returns the rig state at the current time.
func (r *Rig) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(r.now())

	return State{
		Pose:   r.pose,
		View:   r.view,
		Orbit:  r.orbit,
		Moving: r.moving,
		Token:  r.token,
		Since:  r.start,
	}
}

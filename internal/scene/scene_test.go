package scene

import (
	"reflect"
	"sync"
	"testing"

	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

var _ configurator.Surface = (*Scene)(nil)

func TestSceneHighlights(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetMaterial("boton1", configurator.Material{Color: palette.White, Finish: parts.Finish{Roughness: 0.2}})
	s.SetHighlight("boton1", true)
	s.SetHighlight("boton2", true)
	s.SetHighlight("boton2", false)

	if got := s.Highlighted(); !reflect.DeepEqual(got, []string{"boton1"}) {
		t.Fatalf("Highlighted=%v want [boton1]", got)
	}

	n, ok := s.Node("boton1")
	if !ok || n.Emissive != palette.Highlight || n.Material.Finish.Roughness != 0.2 {
		t.Fatalf("node=%+v", n)
	}
}

func TestSceneSnapshotConcurrent(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetColor("fader1", palette.Color{R: byte(j)})
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Nodes) != 1 || snap.Revision != 400 {
		t.Fatalf("snapshot=%+v", snap)
	}
}

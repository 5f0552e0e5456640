package layer

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"stylo/common"
)

type elem struct {
	name    string
	tier    common.Tier
	visible bool
	z       int
	stamps  int
}

func newElem(name string, tier common.Tier) *elem {
	return &elem{name: name, tier: tier, visible: true, z: -1}
}

func (e *elem) Tier() common.Tier { return e.tier }
func (e *elem) Visible() bool     { return e.visible }
func (e *elem) String() string    { return e.name }

func (e *elem) SetZIndex(z int) {
	e.z = z
	e.stamps++
}

func checkPositions(t *testing.T, r *Registry, want map[*elem]int) {
	t.Helper()
	for e, pos := range want {
		got, ok := r.Position(e)
		if !ok || got != pos {
			t.Errorf("Position(%s) = %d, %v; want %d", e.name, got, ok, pos)
		}
		if wantZ := r.TierBase(e.tier) + pos; e.z != wantZ {
			t.Errorf("%s z-index = %d, want %d", e.name, e.z, wantZ)
		}
	}
}

func TestRaiseAndCompact(t *testing.T) {
	r := NewRegistry(0, zaptest.NewLogger(t))
	e1, e2, e3 := newElem("e1", common.TierMid), newElem("e2", common.TierMid), newElem("e3", common.TierMid)

	for i, e := range []*elem{e1, e2, e3} {
		z, changed := r.RaiseToFront(e)
		if !changed || z != DefaultTierSize+i {
			t.Errorf("RaiseToFront(%s) = %d, %v", e.name, z, changed)
		}
	}
	checkPositions(t, r, map[*elem]int{e1: 0, e2: 1, e3: 2})

	e2.visible = false
	if removed := r.Compact(); removed != 1 {
		t.Errorf("Compact() removed %d, want 1", removed)
	}
	checkPositions(t, r, map[*elem]int{e1: 0, e3: 1})
	if _, ok := r.Position(e2); ok {
		t.Error("hidden element survived compaction")
	}
	if r.Len(common.TierMid) != 2 {
		t.Errorf("Len() = %d, want 2", r.Len(common.TierMid))
	}
}

func TestRaiseFrontmostIsNoop(t *testing.T) {
	r := NewRegistry(100, zaptest.NewLogger(t))
	e1, e2 := newElem("e1", common.TierOverlay), newElem("e2", common.TierOverlay)
	r.RaiseToFront(e1)
	r.RaiseToFront(e2)
	stamps := e1.stamps

	z, changed := r.RaiseToFront(e2)
	if changed || z != 301 {
		t.Errorf("RaiseToFront(frontmost) = %d, %v; want 301, false", z, changed)
	}
	if e1.stamps != stamps || e2.stamps != 1 {
		t.Error("no-op raise re-stamped elements")
	}
	checkPositions(t, r, map[*elem]int{e1: 0, e2: 1})
}

func TestRaiseReorders(t *testing.T) {
	r := NewRegistry(0, zaptest.NewLogger(t))
	e1, e2, e3 := newElem("e1", common.TierForeground), newElem("e2", common.TierForeground), newElem("e3", common.TierForeground)
	for _, e := range []*elem{e1, e2, e3} {
		r.RaiseToFront(e)
	}

	z, changed := r.RaiseToFront(e1)
	if !changed || z != 2002 {
		t.Errorf("RaiseToFront(e1) = %d, %v", z, changed)
	}
	checkPositions(t, r, map[*elem]int{e2: 0, e3: 1, e1: 2})
}

func TestRaiseInvisible(t *testing.T) {
	r := NewRegistry(0, zaptest.NewLogger(t))
	e := newElem("hidden", common.TierMid)
	e.visible = false

	if z, changed := r.RaiseToFront(e); changed || z != -1 {
		t.Errorf("RaiseToFront(invisible) = %d, %v", z, changed)
	}
	if e.stamps != 0 || r.Len(common.TierMid) != 0 {
		t.Error("invisible element was placed")
	}

	e.visible = true
	other := newElem("other", common.TierMid)
	r.RaiseToFront(e)
	r.RaiseToFront(other)
	e.visible = false
	if z, changed := r.RaiseToFront(e); changed || z != 1000 {
		t.Errorf("RaiseToFront(placed invisible) = %d, %v", z, changed)
	}
}

func TestTierChange(t *testing.T) {
	r := NewRegistry(0, zaptest.NewLogger(t))
	e1, e2, e3 := newElem("e1", common.TierMid), newElem("e2", common.TierMid), newElem("e3", common.TierUrgent)
	for _, e := range []*elem{e1, e2, e3} {
		r.RaiseToFront(e)
	}

	e1.tier = common.TierUrgent
	z, changed := r.RaiseToFront(e1)
	if !changed || z != 4001 {
		t.Errorf("RaiseToFront(moved) = %d, %v", z, changed)
	}
	checkPositions(t, r, map[*elem]int{e2: 0, e3: 0, e1: 1})
	if r.Len(common.TierMid) != 1 || r.Len(common.TierUrgent) != 2 {
		t.Errorf("unexpected tier sizes %d %d", r.Len(common.TierMid), r.Len(common.TierUrgent))
	}
}

func TestRemove(t *testing.T) {
	r := NewRegistry(0, nil)
	e1, e2, e3 := newElem("e1", common.TierBackground), newElem("e2", common.TierBackground), newElem("e3", common.TierBackground)
	for _, e := range []*elem{e1, e2, e3} {
		r.RaiseToFront(e)
	}

	if !r.Remove(e1) {
		t.Fatal("Remove() = false")
	}
	if r.Remove(e1) {
		t.Error("second Remove() = true")
	}
	checkPositions(t, r, map[*elem]int{e2: 0, e3: 1})
	if z, ok := r.ZIndex(e3); !ok || z != 1 {
		t.Errorf("ZIndex(e3) = %d, %v", z, ok)
	}
}

func TestAutoCompact(t *testing.T) {
	r := NewRegistry(10, zaptest.NewLogger(t), WithCompactThreshold(3))
	elems := []*elem{
		newElem("a", common.TierMid), newElem("b", common.TierMid),
		newElem("c", common.TierMid), newElem("d", common.TierMid),
	}
	for _, e := range elems[:3] {
		r.RaiseToFront(e)
	}
	elems[0].visible = false
	elems[1].visible = false

	z, changed := r.RaiseToFront(elems[3])
	if !changed || z != 11 {
		t.Errorf("RaiseToFront() = %d, %v; want 11, true", z, changed)
	}
	if r.Len(common.TierMid) != 2 {
		t.Errorf("Len() = %d, want 2", r.Len(common.TierMid))
	}
	checkPositions(t, r, map[*elem]int{elems[2]: 0, elems[3]: 1})
}

func TestRegistryString(t *testing.T) {
	r := NewRegistry(0, nil)
	r.RaiseToFront(newElem("dialog", common.TierOverlay))
	r.RaiseToFront(newElem("toast", common.TierUrgent))

	got := r.String()
	for _, want := range []string{
		"Layers: 2 elements, tier size 1000\n",
		"  Tier overlay base 3000: 1\n    [0] z=3000 dialog visible=true\n",
		"  Tier urgent base 4000: 1\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
}

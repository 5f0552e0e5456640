// Package layer keeps stacking order of overlapping elements. Elements are
// grouped into tiers, inside a tier effective z-index of an element is tier
// base plus its position, positions are always contiguous.
package layer

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"stylo/common"
	"stylo/utils/debug"
)

// DefaultTierSize is distance between base z-indices of adjacent tiers.
const DefaultTierSize = 1000

// Element is something which could be stacked. Registry never guesses tier
// or visibility, it asks the element. Implementations must be comparable,
// normally pointers.
type Element interface {
	Tier() common.Tier
	Visible() bool
	SetZIndex(z int)
}

// Registry owns stacking order of all elements of one application.
type Registry struct {
	log       *zap.Logger
	tierSize  int
	threshold int

	mu    sync.Mutex
	tiers map[common.Tier][]Element
	where map[Element]common.Tier
}

// Option configures registry.
type Option func(*Registry)

// WithCompactThreshold makes RaiseToFront compact a tier whenever its list
// grows beyond n elements. Zero disables auto compaction.
func WithCompactThreshold(n int) Option {
	return func(r *Registry) {
		r.threshold = max(n, 0)
	}
}

// NewRegistry creates empty registry. Non positive tier size means default.
func NewRegistry(tierSize int, log *zap.Logger, opts ...Option) *Registry {
	if tierSize <= 0 {
		tierSize = DefaultTierSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		log:      log.Named("layers"),
		tierSize: tierSize,
		tiers:    make(map[common.Tier][]Element),
		where:    make(map[Element]common.Tier),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TierSize returns distance between tier bases.
func (r *Registry) TierSize() int {
	return r.tierSize
}

// TierBase returns base z-index of tier.
func (r *Registry) TierBase(t common.Tier) int {
	return t.Base(r.tierSize)
}

// RaiseToFront moves element to the front of its tier and returns its
// effective z-index. Second value reports whether anything was restacked.
// Invisible elements are left alone, for them -1 is returned unless they
// are already placed.
func (r *Registry) RaiseToFront(e Element) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !e.Visible() {
		r.log.Debug("Ignoring raise of invisible element", zap.Stringer("element", describe(e)))
		if z, ok := r.zIndex(e); ok {
			return z, false
		}
		return -1, false
	}

	tier := e.Tier()
	if cur, ok := r.where[e]; ok {
		list := r.tiers[cur]
		if cur == tier && list[len(list)-1] == e {
			return r.TierBase(tier) + len(list) - 1, false
		}
		r.remove(e)
	}

	r.tiers[tier] = append(r.tiers[tier], e)
	r.where[e] = tier
	pos := len(r.tiers[tier]) - 1
	e.SetZIndex(r.TierBase(tier) + pos)

	if r.threshold > 0 && len(r.tiers[tier]) > r.threshold {
		removed := r.compactTier(tier)
		r.log.Debug("Tier auto compacted", zap.Stringer("tier", tier), zap.Int("removed", removed))
	}

	z, _ := r.zIndex(e)
	r.log.Debug("Element raised", zap.Stringer("element", describe(e)), zap.Stringer("tier", tier), zap.Int("z", z))
	return z, true
}

// Compact drops elements which are no longer visible and renumbers
// remaining ones from zero keeping their order. Returns number of dropped
// elements.
func (r *Registry) Compact() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int
	for _, tier := range r.tierList() {
		removed += r.compactTier(tier)
	}
	r.log.Debug("Layers compacted", zap.Int("removed", removed), zap.Int("remaining", len(r.where)))
	return removed
}

// Remove detaches element, elements in front of it move one position back.
func (r *Registry) Remove(e Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.where[e]; !ok {
		return false
	}
	r.remove(e)
	return true
}

// Position returns element position within its tier.
func (r *Registry) Position(e Element) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position(e)
}

// ZIndex returns effective z-index of element.
func (r *Registry) ZIndex(e Element) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zIndex(e)
}

// Len returns number of elements in tier.
func (r *Registry) Len(t common.Tier) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tiers[t])
}

// String returns readable dump of all tiers.
func (r *Registry) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := debug.NewTreeWriter()
	tw.Line(0, "Layers: %d elements, tier size %d", len(r.where), r.tierSize)
	for _, tier := range r.tierList() {
		list := r.tiers[tier]
		if len(list) == 0 {
			continue
		}
		tw.Line(1, "Tier %s base %d: %d", tier, r.TierBase(tier), len(list))
		for pos, e := range list {
			tw.Line(2, "[%d] z=%d %s visible=%t", pos, r.TierBase(tier)+pos, describe(e), e.Visible())
		}
	}
	return tw.String()
}

func (r *Registry) position(e Element) (int, bool) {
	tier, ok := r.where[e]
	if !ok {
		return 0, false
	}
	return slices.Index(r.tiers[tier], e), true
}

func (r *Registry) zIndex(e Element) (int, bool) {
	pos, ok := r.position(e)
	if !ok {
		return 0, false
	}
	return r.TierBase(r.where[e]) + pos, true
}

func (r *Registry) remove(e Element) {
	tier := r.where[e]
	list := r.tiers[tier]
	pos := slices.Index(list, e)
	list = slices.Delete(list, pos, pos+1)
	r.restamp(tier, list, pos)
	r.tiers[tier] = list
	delete(r.where, e)
}

func (r *Registry) compactTier(tier common.Tier) int {
	list := r.tiers[tier]
	kept := list[:0:0]
	for _, e := range list {
		if e.Visible() {
			kept = append(kept, e)
			continue
		}
		delete(r.where, e)
	}
	r.restamp(tier, kept, 0)
	r.tiers[tier] = kept
	return len(list) - len(kept)
}

func (r *Registry) restamp(tier common.Tier, list []Element, from int) {
	base := r.TierBase(tier)
	for i := from; i < len(list); i++ {
		list[i].SetZIndex(base + i)
	}
}

// tierList returns tiers having elements, lowest first.
func (r *Registry) tierList() []common.Tier {
	tiers := make([]common.Tier, 0, len(r.tiers))
	for tier := range r.tiers {
		tiers = append(tiers, tier)
	}
	slices.Sort(tiers)
	return tiers
}

func describe(e Element) fmt.Stringer {
	if s, ok := e.(fmt.Stringer); ok {
		return s
	}
	return stringer(fmt.Sprintf("%T", e))
}

type stringer string

func (s stringer) String() string {
	return string(s)
}

package widgets

import (
	"fmt"

	"stylo/common"
	"stylo/style"
)

// Window is a floating frame stacked by layer registry.
type Window struct {
	Title string

	tier    common.Tier
	visible bool
	z       int
}

// NewWindow creates visible window in tier.
func NewWindow(title string, tier common.Tier) *Window {
	return &Window{Title: title, tier: tier, visible: true, z: -1}
}

func (w *Window) ComponentName() string { return "window" }

func (w *Window) DeclareStyles(ctx *style.Context) error {
	return ctx.AddClass("window", style.Rules{
		"position":   "absolute",
		"background": style.Ref("surface", "#fafafa"),
		"box-shadow": style.Ref("shadow", "0 2px 8px rgba(0, 0, 0, 0.3)"),
	}, style.States{
		common.StateFocus: {"outline": style.Ref("focus-ring", "2px solid #0066cc")},
	})
}

func (w *Window) Tier() common.Tier { return w.tier }

// SetTier reclassifies window, takes effect on the next raise.
func (w *Window) SetTier(t common.Tier) { w.tier = t }

func (w *Window) Visible() bool { return w.visible }

func (w *Window) Show() { w.visible = true }

func (w *Window) Hide() { w.visible = false }

func (w *Window) SetZIndex(z int) { w.z = z }

// ZIndex returns last assigned z-index, -1 if never stacked.
func (w *Window) ZIndex() int { return w.z }

func (w *Window) String() string {
	return fmt.Sprintf("window %q", w.Title)
}

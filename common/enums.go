// Package common keeps enumerations shared between styling, layering and
// configuration so neither has to import the other.
package common

//go:generate go tool go-enum --names --marshal

// Depth tier of a layered element, each tier owns its own stacking range.
// ENUM(background, mid, foreground, overlay, urgent)
type Tier int

// Base returns the lowest z-index of the tier for given tier size.
func (t Tier) Base(size int) int {
	return int(t) * size
}

// Interaction state a class may carry variant rules for. Order of values is
// the order state rules are emitted in, later states win the cascade.
// ENUM(hover, focus, active, disabled)
type State string

// Rank returns position of the state in emission order, unknown states sort
// after all known ones.
func (s State) Rank() int {
	for i, name := range _StateNames {
		if string(s) == name {
			return i
		}
	}
	return len(_StateNames)
}

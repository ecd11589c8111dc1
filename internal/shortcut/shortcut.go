// Package shortcut maps keyboard events onto history commands.
//
// The default keymap binds Ctrl+Z and Cmd+Z to undo, and Ctrl+Shift+Z,
// Cmd+Shift+Z, Ctrl+Y and Cmd+Y to redo. Nothing fires while focus is in a
// plain input field outside the document regions.
package shortcut

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Action is a command a shortcut triggers.
type Action int

const (
	// None means the event is not a shortcut.
	None Action = iota

	// Undo reverts the last history entry.
	Undo

	// Redo reapplies the last undone entry.
	Redo
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return "none"
	}
}

// Focus says where keyboard focus is.
type Focus int

const (
	// FocusDocument is a content, header or footer region.
	FocusDocument Focus = iota

	// FocusInput is a plain input field, such as the search box.
	FocusInput
)

// modMask is the set of modifiers that distinguish bindings.
const modMask = tcell.ModCtrl | tcell.ModShift | tcell.ModAlt | tcell.ModMeta

// Binding is a normalized key chord: a lowercase rune plus modifiers.
type Binding struct {
	Rune rune
	Mods tcell.ModMask
}

// String formats the binding as "Ctrl+Shift+Z".
func (b Binding) String() string {
	var parts []string
	if b.Mods&tcell.ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Mods&tcell.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if b.Mods&tcell.ModMeta != 0 {
		parts = append(parts, "Cmd")
	}
	if b.Mods&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	parts = append(parts, strings.ToUpper(string(b.Rune)))
	return strings.Join(parts, "+")
}

// Parse reads a chord such as "Ctrl+Shift+Z" or "Cmd+Y". Names and the key
// letter are case-insensitive, so Shift must be spelled out. "Cmd", "Meta"
// and "Super" are the same modifier.
func Parse(chord string) (Binding, error) {
	chord = strings.TrimSpace(chord)
	if chord == "" {
		return Binding{}, ErrEmptyChord
	}

	parts := strings.Split(chord, "+")
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Binding{}, fmt.Errorf("%w: key %q", ErrInvalidChord, keyPart)
	}

	var mods tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= tcell.ModCtrl
		case "shift":
			mods |= tcell.ModShift
		case "alt", "option":
			mods |= tcell.ModAlt
		case "cmd", "meta", "super":
			mods |= tcell.ModMeta
		default:
			return Binding{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, p)
		}
	}
	return Binding{Rune: unicode.ToLower(runes[0]), Mods: mods}, nil
}

// FromEvent normalizes a terminal key event. It reports false for keys that
// are not character chords.
func FromEvent(ev *tcell.EventKey) (Binding, bool) {
	if ev == nil {
		return Binding{}, false
	}
	mods := ev.Modifiers() & modMask
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		return normalizeRune(ev.Rune(), mods), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		switch k {
		case tcell.KeyBackspace, tcell.KeyTab, tcell.KeyEnter:
			// Typeable without Ctrl.
			if mods&tcell.ModCtrl == 0 {
				return Binding{}, false
			}
		}
		if unicode.IsUpper(ev.Rune()) {
			mods |= tcell.ModShift
		}
		r := rune('a' + (k - tcell.KeyCtrlA))
		return normalizeRune(r, mods|tcell.ModCtrl), true
	}
	return Binding{}, false
}

// normalizeRune folds an uppercase letter into lowercase plus Shift.
func normalizeRune(r rune, mods tcell.ModMask) Binding {
	if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods |= tcell.ModShift
	}
	return Binding{Rune: r, Mods: mods}
}

// Keymap maps chords to actions.
type Keymap struct {
	bindings map[Binding]Action
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Binding]Action)}
}

// DefaultKeymap returns the standard undo/redo bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for _, chord := range []string{"Ctrl+Z", "Cmd+Z"} {
		_ = km.Bind(chord, Undo)
	}
	for _, chord := range []string{"Ctrl+Shift+Z", "Cmd+Shift+Z", "Ctrl+Y", "Cmd+Y"} {
		_ = km.Bind(chord, Redo)
	}
	return km
}

// Bind maps chord to a. Binding None removes the chord.
func (km *Keymap) Bind(chord string, a Action) error {
	b, err := Parse(chord)
	if err != nil {
		return err
	}
	if a == None {
		delete(km.bindings, b)
		return nil
	}
	km.bindings[b] = a
	return nil
}

// Lookup returns the action bound to b.
func (km *Keymap) Lookup(b Binding) Action {
	return km.bindings[b]
}

// Bindings returns every chord bound to a, sorted by name.
func (km *Keymap) Bindings(a Action) []string {
	var out []string
	for b, act := range km.bindings {
		if act == a {
			out = append(out, b.String())
		}
	}
	sort.Strings(out)
	return out
}

// Classify returns the action for ev given focus.
func (km *Keymap) Classify(ev *tcell.EventKey, focus Focus) Action {
	if focus == FocusInput {
		return None
	}
	b, ok := FromEvent(ev)
	if !ok {
		return None
	}
	return km.Lookup(b)
}

// Target receives shortcut commands.
type Target interface {
	Undo() bool
	Redo() bool
}

// Dispatch classifies ev and runs the action on t. It returns the action
// and whether the event was consumed; a consumed event must not reach the
// region as typed text even if the action was a no-op.
func (km *Keymap) Dispatch(ev *tcell.EventKey, focus Focus, t Target) (Action, bool) {
	a := km.Classify(ev, focus)
	switch a {
	case Undo:
		t.Undo()
	case Redo:
		t.Redo()
	default:
		return None, false
	}
	return a, true
}

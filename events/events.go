package events

// ClickEventArgs carries the parts of a DOM click event that components act on.
// It has no build tags so click handlers can be invoked from native tests.
type ClickEventArgs struct {
	Button   int
	CtrlKey  bool
	MetaKey  bool
	ShiftKey bool
	AltKey   bool

	preventDefault func()
}

// NewClickEventArgs builds event args. preventDefault is invoked by
// PreventDefault and may be nil.
func NewClickEventArgs(button int, ctrl, meta, shift, alt bool, preventDefault func()) ClickEventArgs {
	return ClickEventArgs{
		Button:         button,
		CtrlKey:        ctrl,
		MetaKey:        meta,
		ShiftKey:       shift,
		AltKey:         alt,
		preventDefault: preventDefault,
	}
}

// PreventDefault stops the browser's default action (e.g. following an href).
func (e ClickEventArgs) PreventDefault() {
	if e.preventDefault != nil {
		e.preventDefault()
	}
}

// HasModifier reports whether any modifier key was held during the click.
func (e ClickEventArgs) HasModifier() bool {
	return e.CtrlKey || e.MetaKey || e.ShiftKey || e.AltKey
}

// Synthetic returns a plain left click. If prevented is non-nil it is set to
// true when the handler calls PreventDefault.
func Synthetic(prevented *bool) ClickEventArgs {
	return NewClickEventArgs(0, false, false, false, false, func() {
		if prevented != nil {
			*prevented = true
		}
	})
}

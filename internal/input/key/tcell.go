package key

import "github.com/gdamore/tcell/v2"

// FromTcell converts a tcell key event to an Event.
//
// tcell reports Ctrl+letter as dedicated control keys; those are turned back
// into a rune plus ModCtrl so they match "ctrl+<letter>" descriptors.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMod(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		return NewRuneEvent(ev.Rune(), mods)
	case tcell.KeyEscape:
		return NewSpecialEvent(KeyEscape, mods)
	case tcell.KeyEnter:
		return NewSpecialEvent(KeyEnter, mods)
	case tcell.KeyTab:
		return NewSpecialEvent(KeyTab, mods)
	case tcell.KeyBacktab:
		return NewSpecialEvent(KeyTab, mods.With(ModShift))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return NewSpecialEvent(KeyBackspace, mods)
	case tcell.KeyDelete:
		return NewSpecialEvent(KeyDelete, mods)
	case tcell.KeyInsert:
		return NewSpecialEvent(KeyInsert, mods)
	case tcell.KeyHome:
		return NewSpecialEvent(KeyHome, mods)
	case tcell.KeyEnd:
		return NewSpecialEvent(KeyEnd, mods)
	case tcell.KeyPgUp:
		return NewSpecialEvent(KeyPageUp, mods)
	case tcell.KeyPgDn:
		return NewSpecialEvent(KeyPageDown, mods)
	case tcell.KeyUp:
		return NewSpecialEvent(KeyUp, mods)
	case tcell.KeyDown:
		return NewSpecialEvent(KeyDown, mods)
	case tcell.KeyLeft:
		return NewSpecialEvent(KeyLeft, mods)
	case tcell.KeyRight:
		return NewSpecialEvent(KeyRight, mods)
	case tcell.KeyPause:
		return NewSpecialEvent(KeyPause, mods)
	case tcell.KeyPrint:
		return NewSpecialEvent(KeyPrintScreen, mods)
	case tcell.KeyCtrlSpace:
		return NewRuneEvent(' ', mods.With(ModCtrl))
	}

	k := ev.Key()
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return NewSpecialEvent(KeyF1+Key(k-tcell.KeyF1), mods)
	}
	// Control keys that did not collide with the named keys above
	// (Backspace, Tab and Enter share codes with Ctrl+H, Ctrl+I, Ctrl+M).
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl))
	}
	return NewSpecialEvent(KeyNone, mods)
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}

package app

import (
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

// wheelLines is how far one wheel notch scrolls when the backend does
// not say.
const wheelLines = 3

var ctrlBindings = map[backend.Key]Intent{
	backend.KeyCtrlA:     SelectAll{},
	backend.KeyCtrlC:     Copy{},
	backend.KeyCtrlX:     Cut{},
	backend.KeyCtrlV:     PasteRequest{},
	backend.KeyCtrlZ:     Undo{},
	backend.KeyCtrlY:     Redo{},
	backend.KeyCtrlF:     Prompt{Kind: PromptFind},
	backend.KeyCtrlR:     Prompt{Kind: PromptReplace},
	backend.KeyCtrlL:     Prompt{Kind: PromptLanguage},
	backend.KeyCtrlN:     FindNext{},
	backend.KeyCtrlE:     ExecuteCell{},
	backend.KeyCtrlG:     Interrupt{},
	backend.KeyCtrlO:     ToggleOutput{},
	backend.KeyCtrlS:     Save{},
	backend.KeyCtrlQ:     Quit{},
	backend.KeyCtrlSpace: Complete{},
	backend.KeyF7:        ToggleGutter{},
	backend.KeyEscape:    Cancel{},
}

// translate maps a backend event to an intent. cur is the cursor offset,
// used by selection bindings. It returns nil for unbound input.
func translate(ev backend.Event, cur engine.Offset) Intent {
	switch ev.Type {
	case backend.EventKey:
		return keyIntent(ev, cur)
	case backend.EventPaste:
		return Paste{Text: ev.PasteText}
	case backend.EventWheel:
		if ev.Lines == 0 {
			return Scroll{Lines: wheelLines}
		}
		return Scroll{Lines: ev.Lines}
	case backend.EventResize:
		return Resize{W: ev.Width, H: ev.Height}
	case backend.EventClosed:
		return Quit{}
	}
	return nil
}

func keyIntent(ev backend.Event, cur engine.Offset) Intent {
	ctrl := ev.Mod.Has(backend.ModCtrl)
	shift := ev.Mod.Has(backend.ModShift)

	if in, ok := ctrlBindings[ev.Key]; ok {
		return in
	}

	switch ev.Key {
	case backend.KeyRune:
		if ctrl || ev.Mod.Has(backend.ModAlt) {
			return nil
		}
		return InsertText{Text: string(ev.Rune)}
	case backend.KeyEnter:
		return InsertNewline{}
	case backend.KeyTab:
		return InsertText{Text: "\t"}
	case backend.KeyBackspace:
		return DeleteBackward{}
	case backend.KeyDelete:
		return DeleteForward{}
	case backend.KeyCtrlW:
		return SelectWord{Offset: cur}
	case backend.KeyCtrlK:
		return SelectLine{Offset: cur}
	}

	var unit cursor.Motion
	switch ev.Key {
	case backend.KeyLeft:
		unit = pick(ctrl, cursor.MotionWordLeft, cursor.MotionLeft)
	case backend.KeyRight:
		unit = pick(ctrl, cursor.MotionWordRight, cursor.MotionRight)
	case backend.KeyUp:
		unit = pick(ctrl, cursor.MotionParagraphUp, cursor.MotionUp)
	case backend.KeyDown:
		unit = pick(ctrl, cursor.MotionParagraphDown, cursor.MotionDown)
	case backend.KeyHome:
		unit = pick(ctrl, cursor.MotionDocStart, cursor.MotionHome)
	case backend.KeyEnd:
		unit = pick(ctrl, cursor.MotionDocEnd, cursor.MotionEnd)
	case backend.KeyPageUp:
		unit = cursor.MotionPageUp
	case backend.KeyPageDown:
		unit = cursor.MotionPageDown
	default:
		return nil
	}
	return Move{Unit: unit, Extend: shift}
}

func pick(cond bool, a, b cursor.Motion) cursor.Motion {
	if cond {
		return a
	}
	return b
}

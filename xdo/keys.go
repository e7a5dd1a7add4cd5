package xdo

import (
	"strconv"
	"strings"
)

var keysyms = map[string]string{
	"enter":       "Return",
	"return":      "Return",
	"esc":         "Escape",
	"escape":      "Escape",
	"tab":         "Tab",
	"space":       "space",
	"backspace":   "BackSpace",
	"delete":      "Delete",
	"del":         "Delete",
	"insert":      "Insert",
	"home":        "Home",
	"end":         "End",
	"pageup":      "Prior",
	"pgup":        "Prior",
	"pagedown":    "Next",
	"pgdn":        "Next",
	"up":          "Up",
	"down":        "Down",
	"left":        "Left",
	"right":       "Right",
	"ctrl":        "Control_L",
	"ctrlleft":    "Control_L",
	"ctrlright":   "Control_R",
	"shift":       "Shift_L",
	"shiftleft":   "Shift_L",
	"shiftright":  "Shift_R",
	"alt":         "Alt_L",
	"altleft":     "Alt_L",
	"altright":    "Alt_R",
	"win":         "Super_L",
	"winleft":     "Super_L",
	"winright":    "Super_R",
	"super":       "Super_L",
	"command":     "Super_L",
	"capslock":    "Caps_Lock",
	"numlock":     "Num_Lock",
	"scrolllock":  "Scroll_Lock",
	"printscreen": "Print",
	"prtsc":       "Print",
	"pause":       "Pause",
	"menu":        "Menu",
	"volumeup":    "XF86AudioRaiseVolume",
	"volumedown":  "XF86AudioLowerVolume",
	"volumemute":  "XF86AudioMute",
}

// KeySym translates a key name as used in macros to an X keysym. Names are
// case-insensitive; unknown names are passed through unchanged so that raw
// keysyms such as "KP_Enter" also work.
func KeySym(name string) string {
	lower := strings.ToLower(name)

	if sym, ok := keysyms[lower]; ok {
		return sym
	}

	if len(lower) >= 2 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 24 {
			return "F" + lower[1:]
		}
	}

	return name
}

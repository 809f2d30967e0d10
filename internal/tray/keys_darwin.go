//go:build darwin

package tray

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// parseModifiers maps config modifier names to hotkey modifiers.
func parseModifiers(names []string) ([]hotkey.Modifier, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("shortcut needs at least one modifier")
	}
	mods := make([]hotkey.Modifier, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ctrl":
			mods = append(mods, hotkey.ModCtrl)
		case "cmd", "meta":
			mods = append(mods, hotkey.ModCmd)
		case "alt", "option":
			// Alt is Option on macOS.
			mods = append(mods, hotkey.ModOption)
		case "shift":
			mods = append(mods, hotkey.ModShift)
		default:
			return nil, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return mods, nil
}

var namedKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"escape": hotkey.KeyEscape,
}

// parseKey maps a config key name to a hotkey key.
func parseKey(name string) (hotkey.Key, error) {
	key, ok := namedKeys[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported key %q", name)
	}
	return key, nil
}

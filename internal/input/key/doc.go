// Package key provides key-press codes, keybindings and descriptor parsing.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, modifier keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Shift, Alt, Meta)
//   - Event: A single key press as delivered by the input device
//   - Code: The opaque, totally ordered form of an Event used for indexing
//   - Keybinding: One key press, or two presses forming a chord
//
// # Descriptors
//
// Key descriptors can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "enter", "escape"
//   - With modifiers: "ctrl+s", "alt+f4", "ctrl+shift+p"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// A chord is two descriptors separated by whitespace, for example
// "ctrl+k ctrl+c". Keybindings longer than two presses are rejected.
//
// The canonical form produced by Keybinding.String is lowercase with
// modifiers in the order ctrl, shift, alt, meta.
package key

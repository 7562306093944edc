package keymap

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// keyColumnWidth is the width the quoted key and its comma are padded to.
const keyColumnWidth = 25

// RenderDefaults writes rules as a JSON array suitable as a starting point
// for an override file. Rules without a keybinding are skipped. The output
// depends only on the order and content of rules.
func RenderDefaults(w io.Writer, rules []*Rule) error {
	_, err := io.WriteString(w, FormatDefaults(rules))
	return err
}

// FormatDefaults returns the text RenderDefaults writes.
func FormatDefaults(rules []*Rule) string {
	var entries []string
	for _, r := range rules {
		if r == nil || r.Keybinding == nil {
			continue
		}
		entries = append(entries, formatEntry(r))
	}

	var sb strings.Builder
	sb.WriteString("[\n")
	if len(entries) > 0 {
		sb.WriteString(strings.Join(entries, ",\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("]\n")
	return sb.String()
}

func formatEntry(r *Rule) string {
	var sb strings.Builder
	sb.WriteString(`{ "key": `)
	sb.WriteString(padRight(quoteJSON(r.Keybinding.String())+",", keyColumnWidth))
	sb.WriteString(` "command": `)
	sb.WriteString(quoteJSON(r.RawCommand()))
	if w := r.WhenText(); w != "" {
		sb.WriteString(`, "when": `)
		sb.WriteString(quoteJSON(w))
	}
	sb.WriteString(" }")
	return sb.String()
}

// RenderUnbound writes commands as comment lines listing commands that
// have no default keybinding. Nothing is written for an empty list.
func RenderUnbound(w io.Writer, commands []string) error {
	if len(commands) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("// Here are other available commands:\n")
	for _, c := range commands {
		sb.WriteString("// - ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func padRight(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

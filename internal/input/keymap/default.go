package keymap

// RegisterDefaults installs the builtin rule set into r.
func RegisterDefaults(r *Registry) int {
	return r.RegisterBuiltin(DefaultBindings()...)
}

// DefaultBindings returns the builtin keybindings.
func DefaultBindings() []Binding {
	return []Binding{
		// File
		{Key: "ctrl+s", Command: "file.save", When: "editorFocus"},
		{Key: "ctrl+shift+s", Command: "file.saveAs", When: "editorFocus"},
		{Key: "ctrl+o", Command: "file.open"},
		{Key: "ctrl+n", Command: "file.new"},
		{Key: "ctrl+k s", Command: "file.saveAll"},

		// Editing
		{Key: "ctrl+z", Command: "edit.undo", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+shift+z", Command: "edit.redo", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+y", Command: "edit.redo", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+x", Command: "^clipboard.cut", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+c", Command: "^clipboard.copy", When: "editorFocus"},
		{Key: "ctrl+v", Command: "^clipboard.paste", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+a", Command: "selection.selectAll", When: "editorFocus"},
		{Key: "escape", Command: "selection.clear", When: "editorFocus && hasSelection"},

		// Comments
		{Key: "ctrl+/", Command: "edit.toggleLineComment", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+k ctrl+c", Command: "edit.addLineComment", When: "editorFocus && !editorReadonly"},
		{Key: "ctrl+k ctrl+u", Command: "edit.removeLineComment", When: "editorFocus && !editorReadonly"},

		// Search
		{Key: "ctrl+f", Command: "find.open", When: "editorFocus"},
		{Key: "ctrl+h", Command: "find.replace", When: "editorFocus && !editorReadonly"},
		{Key: "f3", Command: "find.next", When: "findWidgetVisible"},
		{Key: "shift+f3", Command: "find.previous", When: "findWidgetVisible"},
		{Key: "escape", Command: "find.close", When: "findWidgetVisible"},

		// Navigation
		{Key: "ctrl+p", Command: "quickOpen.show"},
		{Key: "ctrl+shift+p", Command: "commandPalette.show"},
		{Key: "escape", Command: "quickOpen.close", When: "inQuickOpen"},
		{Key: "ctrl+g", Command: "editor.gotoLine", When: "editorFocus"},
		{Key: "ctrl+tab", Command: "workbench.nextEditor"},
		{Key: "ctrl+shift+tab", Command: "workbench.previousEditor"},

		// Editors
		{Key: "ctrl+w", Command: "workbench.closeEditor"},
		{Key: "ctrl+k ctrl+w", Command: "workbench.closeAllEditors"},
		{Key: "ctrl+k w", Command: "workbench.closeEditorsInGroup"},
		{Key: "ctrl+\\", Command: "workbench.splitEditor"},

		// Settings
		{Key: "ctrl+k ctrl+s", Command: "workbench.openKeybindings"},
		{Key: "ctrl+,", Command: "workbench.openSettings"},

		// Application
		{Key: "ctrl+q", Command: "app.quit"},
	}
}

// KnownCommands returns every builtin command id, bound or not.
func KnownCommands() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range DefaultBindings() {
		cmd, _ := stripBubble(b.Command)
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		out = append(out, cmd)
	}
	return append(out,
		"editor.toggleWordWrap",
		"editor.foldAll",
		"editor.unfoldAll",
		"workbench.reloadWindow",
		"workbench.toggleSidebar",
	)
}

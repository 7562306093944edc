// Package config loads the keychord configuration file.
//
// Configuration is TOML:
//
//	log_level   = "info"
//	keybindings = "keybindings.json"   # relative to the config file
//	watch       = true
//	debounce    = "100ms"
//	metrics_addr = ":9090"
//
//	[context]
//	editorFocus = true
//
//	[[commands]]
//	id     = "demo.hello"
//	script = 'log("hello " .. tostring(args and args.name))'
//
// Environment variables override the file:
//
//	KEYCHORD_LOG_LEVEL    log_level
//	KEYCHORD_KEYBINDINGS  keybindings
//	KEYCHORD_METRICS_ADDR metrics_addr
//
// # Sub-packages
//
//   - notify: synchronous change notification between rule sources and
//     their consumers
//   - watcher: fsnotify-based watching of the override file
package config

package command

import (
	"context"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/logging"
)

// LuaHandler runs a Lua snippet as a command.
//
// The snippet sees the invocation's args as the global "args" and can call
// log(msg). Raising an error fails the command. A LuaHandler owns one Lua
// state and serializes executions on it.
type LuaHandler struct {
	mu     sync.Mutex
	name   string
	L      *lua.LState
	fn     *lua.LFunction
	logger *logging.Logger
	closed bool
}

// NewLuaHandler compiles source. The name is used in error messages.
func NewLuaHandler(name, source string, logger *logging.Logger) (*LuaHandler, error) {
	if logger == nil {
		logger = logging.Null()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	fn, err := L.LoadString(source)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}

	h := &LuaHandler{
		name:   name,
		L:      L,
		fn:     fn,
		logger: logger.WithField("script", name),
	}
	L.SetGlobal("log", L.NewFunction(h.luaLog))
	return h, nil
}

// openSafeLibraries opens the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (h *LuaHandler) luaLog(L *lua.LState) int {
	h.logger.Info("%s", L.CheckString(1))
	return 0
}

// Execute runs the snippet with args bound. Cancelling ctx stops it.
func (h *LuaHandler) Execute(ctx context.Context, args any) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("%w: %s: handler closed", ErrScript, h.name)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrScript, h.name, p)
		}
	}()

	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	h.L.SetGlobal("args", toLua(h.L, args))
	h.L.Push(h.fn)
	if perr := h.L.PCall(0, 0, nil); perr != nil {
		return fmt.Errorf("%w: %s: %v", ErrScript, h.name, perr)
	}
	return nil
}

// Close releases the Lua state.
func (h *LuaHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.L.Close()
	}
}

// toLua converts decoded configuration values to Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, toLua(L, val[k]))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

package custom

import (
	"context"
	"fmt"
	"sync"

	"github.com/urlresolver/urlresolver/auth"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/plugin"
	lua "github.com/yuin/gopher-lua"
)

var (
	_ plugin.Resolver      = (*Resolver)(nil)
	_ plugin.Authenticator = (*Resolver)(nil)
)

// Resolver is a resolver plugin backed by a Lua script.
// Calls are serialized since a Lua state is not safe for concurrent use.
type Resolver struct {
	mu    sync.Mutex
	state *lua.LState

	name      string
	path      string
	priority  int
	domains   []string
	universal bool
	caps      []plugin.Capability
}

func (r *Resolver) Name() string                    { return r.name }
func (r *Resolver) ID() string                      { return IDfromName(r.name) }
func (r *Resolver) Path() string                    { return r.path }
func (r *Resolver) Priority() int                   { return r.priority }
func (r *Resolver) Implements() []plugin.Capability { return r.caps }
func (r *Resolver) Domains() []string               { return r.domains }
func (r *Resolver) IsUniversal() bool               { return r.universal }

// HasLabels reports whether the script defines GetMediaLabels.
func (r *Resolver) HasLabels() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.GetGlobal(constant.GetMediaLabelsFn).Type() == lua.LTFunction
}

func (r *Resolver) HostAndID(url string) (string, string, bool) {
	ret, err := r.call(context.Background(), constant.GetHostAndIDFn, 2, lua.LString(url))
	if err != nil {
		log.Warnf("%s: %s(%q): %v", r.name, constant.GetHostAndIDFn, url, err)
		return "", "", false
	}

	if lua.LVIsFalse(ret[0]) || lua.LVIsFalse(ret[1]) {
		return "", "", false
	}
	return ret[0].String(), ret[1].String(), true
}

func (r *Resolver) URL(host, mediaID string) string {
	ret, err := r.call(context.Background(), constant.GetURLFn, 1, lua.LString(host), lua.LString(mediaID))
	if err != nil {
		log.Warnf("%s: %s(%q, %q): %v", r.name, constant.GetURLFn, host, mediaID, err)
		return ""
	}
	return optString(ret[0])
}

func (r *Resolver) MediaURL(ctx context.Context, host, mediaID string) (string, error) {
	ret, err := r.call(ctx, constant.GetMediaURLFn, 1, lua.LString(host), lua.LString(mediaID))
	if err != nil {
		return "", err
	}
	return optString(ret[0]), nil
}

func (r *Resolver) MediaLabels(ctx context.Context, host, mediaID string) (plugin.Labels, error) {
	if !r.HasLabels() {
		return nil, nil
	}

	ret, err := r.call(ctx, constant.GetMediaLabelsFn, 1, lua.LString(host), lua.LString(mediaID))
	if err != nil {
		return nil, err
	}

	table, ok := ret[0].(*lua.LTable)
	if !ok {
		return nil, nil
	}
	return labelsFromTable(table), nil
}

// Login passes the credentials saved for this plugin to the script's Login function.
// A script returning false, optionally followed by a message, rejects the login.
func (r *Resolver) Login(ctx context.Context) error {
	creds, err := auth.Get(r.name)
	if err != nil {
		return err
	}

	ret, err := r.call(ctx, constant.LoginFn, 2, lua.LString(creds.Username), lua.LString(creds.Password))
	if err != nil {
		return err
	}

	if ret[0] == lua.LFalse {
		if msg := optString(ret[1]); msg != "" {
			return fmt.Errorf("login rejected: %s", msg)
		}
		return fmt.Errorf("login rejected")
	}
	return nil
}

// Close releases the Lua state.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Close()
}

// call invokes a global function and returns exactly nret values.
func (r *Resolver) call(ctx context.Context, fn string, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	luaFn := r.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	r.state.SetContext(ctx)
	defer r.state.RemoveContext()

	err := r.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    nret,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	ret := make([]lua.LValue, nret)
	for i := range ret {
		ret[i] = r.state.Get(i - nret)
	}
	r.state.Pop(nret)

	return ret, nil
}

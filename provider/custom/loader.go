// Package custom runs resolver plugins written in Lua.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/internal/scraper"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/version"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName returns the identifier of the custom plugin loaded from a script named name.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadResolver executes the script at path and validates that it implements the resolver contract.
func LoadResolver(path string) (*Resolver, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	name := util.FileStem(path)
	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	r, err := newResolver(name, path, state)
	if err != nil {
		state.Close()
		return nil, err
	}
	return r, nil
}

func newResolver(name, path string, state *lua.LState) (*Resolver, error) {
	for _, fn := range []string{constant.GetHostAndIDFn, constant.GetURLFn, constant.GetMediaURLFn} {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	if required := state.GetGlobal(constant.MinVersionVar); required.Type() == lua.LTString {
		ok, err := version.Satisfies(constant.Version, required.String())
		if err != nil {
			return nil, fmt.Errorf("%s: invalid %s: %w", name, constant.MinVersionVar, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s requires %s %s, running %s", name, constant.Urlresolver, required, constant.Version)
		}
	}

	domains := stringList(state.GetGlobal(constant.DomainsVar))
	if len(domains) == 0 {
		return nil, fmt.Errorf("%s must declare at least one domain in %s", name, constant.DomainsVar)
	}

	priority := constant.DefaultPriority
	if p, ok := state.GetGlobal(constant.PriorityVar).(lua.LNumber); ok {
		priority = int(p)
	}

	r := &Resolver{
		name:      name,
		path:      path,
		state:     state,
		priority:  priority,
		domains:   domains,
		universal: lua.LVAsBool(state.GetGlobal(constant.UniversalVar)),
		caps:      []plugin.Capability{plugin.CapResolver},
	}

	if state.GetGlobal(constant.LoginFn).Type() == lua.LTFunction {
		r.caps = append(r.caps, plugin.CapAuth)
	}

	return r, nil
}

// Package scraper compiles Lua plugin scripts and caches their bytecode.
package scraper

import (
	"sync"

	"github.com/urlresolver/urlresolver/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// Compile parses and compiles the script at path, reusing a previous compilation of the same path.
func Compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// Forget drops the cached bytecode of path so the next Compile reads it again.
func Forget(path string) {
	bytecodeCache.Delete(path)
}

// PreCompileAndLoad runs the script at path in L.
func PreCompileAndLoad(L *lua.LState, path string) error {
	proto, err := Compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

package custom

import (
	"strings"

	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/plugin"
	lua "github.com/yuin/gopher-lua"
)

// optString converts a returned value to a string. nil and false become "".
func optString(v lua.LValue) string {
	if lua.LVIsFalse(v) {
		return ""
	}
	return v.String()
}

// stringList accepts a table of strings or a comma separated string.
func stringList(v lua.LValue) []string {
	switch value := v.(type) {
	case lua.LString:
		return lo.Compact(lo.Map(strings.Split(string(value), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	case *lua.LTable:
		var list []string
		value.ForEach(func(_, item lua.LValue) {
			if s, ok := item.(lua.LString); ok && s != "" {
				list = append(list, string(s))
			}
		})
		return list
	default:
		return nil
	}
}

// labelsFromTable keeps the string keyed, scalar valued entries of a table.
func labelsFromTable(table *lua.LTable) plugin.Labels {
	labels := make(plugin.Labels)
	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString {
			return
		}

		switch v.Type() {
		case lua.LTString, lua.LTNumber, lua.LTBool:
			labels[k.String()] = v.String()
		}
	})
	return labels
}

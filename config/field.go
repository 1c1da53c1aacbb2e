package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/style"
)

// Field is a configuration key with its default value.
// The type of Value is the type of the key.
type Field struct {
	Key         string
	Value       any
	Description string
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Urlresolver + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Parse converts command line arguments to a value of the field's type.
// Only list fields accept more than one argument.
func (f *Field) Parse(args []string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: value is required", f.Key)
	}

	if _, ok := f.Value.([]string); ok {
		return lo.FlatMap(args, func(arg string, _ int) []string {
			return lo.Compact(lo.Map(strings.Split(arg, ","), func(s string, _ int) string {
				return strings.TrimSpace(s)
			}))
		}), nil
	}

	if len(args) > 1 {
		return nil, fmt.Errorf("%s takes a single %s value", f.Key, f.typeName())
	}

	raw := args[0]
	switch f.Value.(type) {
	case string:
		return raw, nil
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer value %q", f.Key, raw)
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean value %q", f.Key, raw)
		}
		return v, nil
	}

	return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Env         string `json:"env"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Env:         f.Env(),
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	return reflect.TypeOf(f.Value).String()
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			if value == "" {
				return style.Faint(`""`)
			}
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ typename .Value }}`))

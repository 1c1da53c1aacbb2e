// Package provider discovers the builtin and custom resolver plugins and registers them.
package provider

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/key"
	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/provider/custom"
	"github.com/urlresolver/urlresolver/provider/generic"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/where"
)

// CustomProviderExtension is the extension of custom plugin scripts.
const CustomProviderExtension = constant.PluginExtension

// Provider describes a plugin that can be created and registered.
type Provider struct {
	ID       string
	Name     string
	IsCustom bool
	// Path is the script location of custom providers.
	Path   string
	Create func() (plugin.Plugin, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns the providers compiled into the binary.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:   generic.Name + " builtin",
			Name: generic.Name,
			Create: func() (plugin.Plugin, error) {
				return generic.New(
					viper.GetInt(key.ResolversGenericPriority),
					viper.GetStringSlice(key.ResolversGenericDomains),
				), nil
			},
		},
	}
}

// Customs returns the Lua providers found in the sources directory.
func Customs() []*Provider {
	providers, err := CustomProviders()
	if err != nil {
		log.Warnf("list custom providers: %v", err)
	}
	return providers
}

// CustomProviders lists the Lua scripts in the sources directory.
func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != CustomProviderExtension {
			continue
		}

		path := filepath.Join(where.Sources(), f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			Path:     path,
			Create: func() (plugin.Plugin, error) {
				return custom.LoadResolver(path)
			},
		})
	}

	return providers, nil
}

// All returns the builtin providers followed by the custom ones.
func All() []*Provider {
	return append(Builtins(), Customs()...)
}

// Get finds a provider by name.
func Get(name string) (*Provider, bool) {
	return lo.Find(All(), func(p *Provider) bool {
		return p.Name == name
	})
}

// IsDisabled reports whether the user turned the named provider off.
// Entries of the disabled list are glob patterns, so "*tube*" disables every matching plugin.
func IsDisabled(name string) bool {
	return lo.ContainsBy(viper.GetStringSlice(key.ResolversDisabled), func(pattern string) bool {
		if pattern == name {
			return true
		}
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			log.Warnf("invalid pattern %q in %s: %v", pattern, key.ResolversDisabled, err)
		}
		return matched
	})
}

// Load creates every enabled provider and adds it to reg.
// Providers that fail to load are skipped; their errors are joined in the result.
func Load(reg *plugin.Registry) error {
	var errs []error

	for _, p := range All() {
		if IsDisabled(p.Name) {
			log.Infof("provider %s is disabled", p.Name)
			continue
		}

		instance, err := p.Create()
		if err != nil {
			log.Errorf("provider %s: %v", p.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}

		reg.Add(instance)
	}

	return errors.Join(errs...)
}

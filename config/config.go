package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/where"
)

// EnvKeyReplacer maps configuration keys to environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

const fileType = "toml"

// Setup registers the defaults and environment bindings, then reads the config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.Urlresolver)
	viper.SetConfigType(fileType)
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Urlresolver)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Path returns the location of the config file.
func Path() string {
	return filepath.Join(where.Config(), constant.Urlresolver+"."+fileType)
}

// Write saves the current configuration, creating the file when it does not exist yet.
func Write() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

// Set validates args against the field of k, then stores the parsed value.
func Set(k string, args []string) (any, error) {
	field, err := Lookup(k)
	if err != nil {
		return nil, err
	}

	value, err := field.Parse(args)
	if err != nil {
		return nil, err
	}

	viper.Set(k, value)
	return value, nil
}

// ResetKey restores the default value of k.
func ResetKey(k string) error {
	field, err := Lookup(k)
	if err != nil {
		return err
	}

	viper.Set(k, field.Value)
	return nil
}

// ResetAll restores every default value.
func ResetAll() {
	for k, field := range Default {
		viper.Set(k, field.Value)
	}
}

// Package config defines the configuration keys and loads them with viper.
package config

import (
	"fmt"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/key"
)

var fields = []Field{
	{key.ResolversDisabled, []string{}, "Resolver plugins that should not be registered, glob patterns are allowed.\nType \"urlresolver sources list\" to show available plugins"},
	{key.ResolversGenericDomains, []string{}, "Domains handled by the builtin generic resolver.\nIt looks for OpenGraph video tags and <video> elements"},
	{key.ResolversGenericPriority, 10, "Priority of the builtin generic resolver. Higher is preferred"},

	{key.ResolveTimeout, 60, "Seconds allowed for a single resolution, 0 disables the limit"},
	{key.ResolveOpenApp, "", "Application that opens resolved media with --open, e.g. mpv.\nThe system default handler is used when empty"},

	{key.HistorySave, true, "Save successfully resolved media to the history"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Enable automatic version check"},
}

// Default maps every key to its field.
var Default = lo.KeyBy(fields, func(f Field) string { return f.Key })

// EnvExposed lists the keys that can be set through the environment.
var EnvExposed = lo.Map(fields, func(f Field, _ int) string { return f.Key })

// UnknownKeyError is returned for keys that are not registered.
type UnknownKeyError struct {
	Key string
	// Closest is the registered key with the smallest edit distance.
	Closest string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %s, did you mean %s?", e.Key, e.Closest)
}

// Lookup returns the field registered under k.
func Lookup(k string) (Field, error) {
	if f, ok := Default[k]; ok {
		return f, nil
	}

	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, &UnknownKeyError{Key: k, Closest: closest}
}

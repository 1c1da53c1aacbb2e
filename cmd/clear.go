package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/history"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/where"
)

type clearTarget struct {
	name  string
	flag  string
	short mo.Option[string]
	clear func() error
}

func removeAll(location func() string) func() error {
	return func() error {
		return filesystem.API().RemoveAll(location())
	}
}

var clearTargets = []clearTarget{
	{"cached responses", "cache", mo.Some("c"), removeAll(where.Cache)},
	{"history", "history", mo.Some("s"), history.Clear},
	{"logs", "logs", mo.Some("l"), removeAll(where.Logs)},
	{"temporary files", "temp", mo.None[string](), removeAll(where.Temp)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := "Clear " + target.name
		if short, ok := target.short.Get(); ok {
			clearCmd.Flags().BoolP(target.flag, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.flag, false, help)
		}
	}

	clearCmd.Flags().BoolP("all", "a", false, "Clear everything above")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached responses, history, logs and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))

		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(t.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}

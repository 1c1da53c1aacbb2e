package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/config"
	"github.com/urlresolver/urlresolver/style"
	"github.com/urlresolver/urlresolver/where"
)

type whereTarget struct {
	title    string
	location func() string
	flag     string
	short    mo.Option[string]
	hidden   bool
}

var whereTargets = []*whereTarget{
	{"Config file", config.Path, "config", mo.Some("c"), false},
	{"Plugins", where.Sources, "sources", mo.Some("s"), false},
	{"History", where.History, "history", mo.None[string](), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Cache", where.Cache, "cache", mo.None[string](), true},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		help := "Print only the " + t.title + " path"
		if short, ok := t.short.Get(); ok {
			whereCmd.Flags().BoolP(t.flag, short, false, help)
		} else {
			whereCmd.Flags().Bool(t.flag, false, help)
		}

		if t.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(t.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t *whereTarget, _ int) string {
		return t.flag
	})...)

	whereCmd.Flags().BoolP("json", "j", false, "Print every path as a JSON object")
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where the config, plugins, history and logs are stored",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range whereTargets {
			if lo.Must(cmd.Flags().GetBool(t.flag)) {
				cmd.Println(t.location())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(whereTargets, func(t *whereTarget) (string, string) {
				return t.flag, t.location()
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereTargets, func(t *whereTarget, _ int) bool {
			return t.hidden
		})

		for i, t := range visible {
			cmd.Printf("%s %s\n", header(t.title+"?"), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.location())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}

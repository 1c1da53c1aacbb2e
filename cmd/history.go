package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/history"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/style"
	"github.com/urlresolver/urlresolver/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the most recent entries")
	historyCmd.Flags().StringP("remove", "r", "", "Remove the entry of the given page URL")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously resolved media",
	Run: func(cmd *cobra.Command, args []string) {
		if url := lo.Must(cmd.Flags().GetString("remove")); url != "" {
			handleErr(history.Remove(url))
			cmd.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(url))
			return
		}

		entries, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No history yet"))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s %s\n",
				icon.Get(icon.Link),
				style.Bold(e.String()),
				style.Faint(e.ResolvedAt.Format("2006-01-02 15:04")+", "+util.Quantify(e.Count, "time", "times")),
			)
			cmd.Printf("  %s\n  %s\n", e.URL, style.Fg(color.Green)(e.MediaURL))
		}
	},
}

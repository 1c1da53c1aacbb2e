package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/provider/custom"
	"github.com/urlresolver/urlresolver/style"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("labels", "l", false, "Also call the labels function when a url is given")
	runCmd.SetOut(os.Stdout)
}

var runCmd = &cobra.Command{
	Use:   "run [file] [url]",
	Short: "Load a Lua resolver plugin and optionally resolve a page with it",
	Long: `Load a Lua resolver plugin without installing it and print what it declares.
When a page url is given, the plugin alone is used to resolve it. Useful for plugin development and debugging.`,
	Args:    cobra.RangeArgs(1, 2),
	Example: "  urlresolver run ./tube.lua https://tube.com/watch?v=abc",
	Run: func(cmd *cobra.Command, args []string) {
		resolver, err := custom.LoadResolver(args[0])
		handleErr(err)
		defer resolver.Close()

		field := func(name string, value any) {
			cmd.Printf("%s %v\n", style.Faint(fmt.Sprintf("%-12s", name)), value)
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Lua), style.Bold(resolver.Name()))
		field("Priority", resolver.Priority())
		field("Domains", strings.Join(resolver.Domains(), ", "))
		field("Universal", resolver.IsUniversal())
		field("Implements", strings.Join(lo.Map(resolver.Implements(), func(c plugin.Capability, _ int) string {
			return string(c)
		}), ", "))
		field("Labels", resolver.HasLabels())

		if len(args) < 2 {
			return
		}

		host, mediaID, ok := resolver.HostAndID(args[1])
		if !ok {
			handleErr(fmt.Errorf("%s does not recognise %s", resolver.Name(), args[1]))
		}

		cmd.Println()
		field("Host", host)
		field("Media ID", mediaID)
		field("Page", resolver.URL(host, mediaID))

		ctx, cancel := resolveContext()
		defer cancel()

		if plugin.HasCapability(resolver, plugin.CapAuth) {
			handleErr(resolver.Login(ctx))
		}

		mediaURL, err := resolver.MediaURL(ctx, host, mediaID)
		handleErr(err)
		if mediaURL == "" {
			mediaURL = style.Fg(color.Red)("nothing")
		}
		field("Media", mediaURL)

		if lo.Must(cmd.Flags().GetBool("labels")) {
			labels, err := resolver.MediaLabels(ctx, host, mediaID)
			handleErr(err)
			for name, value := range labels {
				field("  "+name, value)
			}
		}
	},
}

// Package cmd implements the command-line interface for urlresolver.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/key"
	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/provider"
	"github.com/urlresolver/urlresolver/style"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/version"
	"github.com/urlresolver/urlresolver/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Save successful resolutions to the history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringSliceP("disable", "D", []string{}, "Resolver plugins to leave unregistered")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("disable", completionProviderNames))
	lo.Must0(viper.BindPFlag(key.ResolversDisabled, rootCmd.PersistentFlags().Lookup("disable")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Urlresolver + " [url]",
	Short: "Resolve hosted media pages into direct media URLs",
	Long: style.Bold(constant.Urlresolver) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - resolve hosted media pages into direct media URLs through pluggable resolvers"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		resolveCmd.Run(resolveCmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadRegistry registers every enabled resolver. Plugins that fail to load are reported and skipped.
func loadRegistry() *plugin.Registry {
	reg := plugin.NewRegistry()
	if err := provider.Load(reg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), style.Faint(err.Error()))
	}
	return reg
}

// resolveContext bounds a resolution by the configured timeout.
func resolveContext() (context.Context, context.CancelFunc) {
	timeout := viper.GetInt(key.ResolveTimeout)
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
}

func completionProviderNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.All(), func(p *provider.Provider, _ int) string {
		return p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

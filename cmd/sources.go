package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/urlresolver/urlresolver/auth"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/provider"
	"github.com/urlresolver/urlresolver/style"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/where"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"resolvers"},
	Short:   "Manage builtin and custom resolver plugins",
}

// sourceInfo is a loaded plugin as shown by the sources commands.
type sourceInfo struct {
	provider *provider.Provider
	plugin   plugin.Plugin
	err      error
}

func (s *sourceInfo) domains() []string {
	if r, ok := s.plugin.(plugin.Resolver); ok {
		return r.Domains()
	}
	return nil
}

func loadSources(providers []*provider.Provider) []*sourceInfo {
	return lo.Map(providers, func(p *provider.Provider, _ int) *sourceInfo {
		instance, err := p.Create()
		return &sourceInfo{provider: p, plugin: instance, err: err}
	})
}

func closeSources(sources []*sourceInfo) {
	for _, s := range sources {
		if closer, ok := s.plugin.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

func printSource(cmd *cobra.Command, s *sourceInfo, width int) {
	name := s.provider.Name
	if provider.IsDisabled(name) {
		name = style.Faint(name + " (disabled)")
	} else {
		name = style.Bold(name)
	}

	if s.err != nil {
		cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), name, style.Fg(color.Red)(s.err.Error()))
		return
	}

	kind := icon.Get(icon.Go)
	if s.provider.IsCustom {
		kind = icon.Get(icon.Lua)
	}

	var lock string
	if plugin.HasCapability(s.plugin, plugin.CapAuth) {
		lock = " " + icon.Get(icon.Lock)
	}

	domains := strings.Join(s.domains(), ", ")
	if domains == "" {
		domains = "no domains"
	}
	if width > 0 {
		domains = truncate.StringWithTail(domains, uint(width), "…")
	}

	cmd.Printf("%s %s %s%s\n", kind, name, style.Fg(color.Yellow)(strconv.Itoa(s.plugin.Priority())), lock)
	cmd.Printf("  %s\n", style.Faint(domains))
}

func domainsWidth() int {
	width, _, err := util.TerminalSize()
	if err != nil {
		return 0
	}
	return util.Max(width-2, 10)
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Print only plugin names")
	sourcesListCmd.Flags().BoolP("custom", "c", false, "Display only user-installed Lua plugins")
	sourcesListCmd.Flags().BoolP("builtin", "b", false, "Display only builtin plugins")

	sourcesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sourcesListCmd.SetOut(os.Stdout)
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the resolver plugins with their priority and domains",
	Run: func(cmd *cobra.Command, args []string) {
		var providers []*provider.Provider
		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			providers = provider.Builtins()
		case lo.Must(cmd.Flags().GetBool("custom")):
			providers = provider.Customs()
		default:
			providers = provider.All()
		}

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, p := range providers {
				cmd.Println(p.Name)
			}
			return
		}

		sources := loadSources(providers)
		defer closeSources(sources)

		width := domainsWidth()
		for _, s := range sources {
			printSource(cmd, s, width)
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesSearchCmd)
	sourcesSearchCmd.SetOut(os.Stdout)
}

var sourcesSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find resolver plugins by name or claimed domain",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.ToLower(args[0])

		sources := loadSources(provider.All())
		defer closeSources(sources)

		matches := lo.Filter(sources, func(s *sourceInfo, _ int) bool {
			candidates := append([]string{s.provider.Name}, s.domains()...)
			return len(fuzzy.FindFold(query, candidates)) > 0
		})

		if len(matches) == 0 {
			handleErr(fmt.Errorf("no resolver matches %s", style.Fg(color.Yellow)(query)))
		}

		width := domainsWidth()
		for _, s := range matches {
			printSource(cmd, s, width)
		}
	},
}

func completionCustomNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	providers, err := provider.CustomProviders()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(providers, func(p *provider.Provider, _ int) string {
		return p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the custom plugin(s) to uninstall")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", completionCustomNames))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall custom Lua plugins",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+provider.CustomProviderExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new resolver plugin")
	sourcesGenCmd.Flags().StringP("domain", "d", "", "Domain the plugin resolves, e.g. example.com")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("domain"))
}

var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua resolver plugin",
	Long:  `Generate a Lua resolver plugin with the required functions and variables filled in.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name           string
			Domain         string
			Author         string
			DomainsVar     string
			PriorityVar    string
			UniversalVar   string
			GetHostAndIDFn string
			GetURLFn       string
			GetMediaURLFn  string
		}{
			Name:           lo.Must(cmd.Flags().GetString("name")),
			Domain:         lo.Must(cmd.Flags().GetString("domain")),
			Author:         author,
			DomainsVar:     constant.DomainsVar,
			PriorityVar:    constant.PriorityVar,
			UniversalVar:   constant.UniversalVar,
			GetHostAndIDFn: constant.GetHostAndIDFn,
			GetURLFn:       constant.GetURLFn,
			GetMediaURLFn:  constant.GetMediaURLFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("plugin").Funcs(funcMap).Parse(constant.PluginTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+provider.CustomProviderExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))
		cmd.Println(target)
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesLoginCmd)

	sourcesLoginCmd.Flags().StringP("username", "u", "", "Account username, prompted for when empty")
	sourcesLoginCmd.Flags().Bool("no-verify", false, "Store the credentials without trying to log in")
	sourcesLoginCmd.ValidArgsFunction = completionCustomNames
}

var sourcesLoginCmd = &cobra.Command{
	Use:   "login [plugin]",
	Short: "Store account credentials for a plugin in the system keyring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		p, ok := provider.Get(name)
		if !ok {
			handleErr(fmt.Errorf("plugin not found: %s", name))
		}

		instance, err := p.Create()
		handleErr(err)
		if closer, ok := instance.(interface{ Close() }); ok {
			defer closer.Close()
		}

		authenticator, ok := plugin.AsAuthenticator(instance)
		if !ok {
			handleErr(fmt.Errorf("%s does not need an account", name))
		}

		creds := auth.Credentials{Username: lo.Must(cmd.Flags().GetString("username"))}
		if creds.Username == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: fmt.Sprintf("%s username:", name),
			}, &creds.Username, survey.WithValidator(survey.Required)))
		}

		handleErr(survey.AskOne(&survey.Password{
			Message: fmt.Sprintf("%s password:", name),
		}, &creds.Password, survey.WithValidator(survey.Required)))

		handleErr(auth.Set(name, creds))

		if !lo.Must(cmd.Flags().GetBool("no-verify")) {
			ctx, cancel := resolveContext()
			defer cancel()

			if err := authenticator.Login(ctx); err != nil {
				handleErr(errors.Join(auth.Delete(name), fmt.Errorf("login to %s failed: %w", name, err)))
			}
		}

		fmt.Printf("%s credentials for %s saved\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesLogoutCmd)
	sourcesLogoutCmd.ValidArgsFunction = completionCustomNames
}

var sourcesLogoutCmd = &cobra.Command{
	Use:   "logout [plugin]",
	Short: "Remove the stored credentials of a plugin",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		handleErr(auth.Delete(name))

		fmt.Printf("%s credentials for %s removed\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
	},
}

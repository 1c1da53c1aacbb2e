package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/history"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/inline"
	"github.com/urlresolver/urlresolver/key"
	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/open"
	"github.com/urlresolver/urlresolver/style"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("host", "", "Media host, used together with --id instead of a page URL")
	resolveCmd.Flags().String("id", "", "Media id on the host")
	resolveCmd.Flags().StringP("title", "t", "", "Title to remember the media by")
	resolveCmd.Flags().BoolP("labels", "l", false, "Also print the labels reported by the top resolver")
	resolveCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	resolveCmd.Flags().BoolP("open", "o", false, "Open the resolved media URL")
	resolveCmd.Flags().StringP("with", "w", "", "Application used by --open, e.g. mpv")
	lo.Must0(viper.BindPFlag(key.ResolveOpenApp, resolveCmd.Flags().Lookup("with")))

	resolveCmd.MarkFlagsRequiredTogether("host", "id")
	resolveCmd.SetOut(os.Stdout)
}

var resolveCmd = &cobra.Command{
	Use:     "resolve [url]",
	Short:   "Resolve a page URL, or a host and media id, into a direct media URL",
	Args:    cobra.MaximumNArgs(1),
	Example: "  urlresolver resolve https://www.example.com/watch?v=abc\n  urlresolver resolve --host example.com --id abc",
	Run: func(cmd *cobra.Command, args []string) {
		opts := media.Options{
			Host:    lo.Must(cmd.Flags().GetString("host")),
			MediaID: lo.Must(cmd.Flags().GetString("id")),
			Title:   lo.Must(cmd.Flags().GetString("title")),
		}
		if len(args) > 0 {
			opts.URL = args[0]
		}

		file, err := media.New(loadRegistry(), opts)
		if errors.Is(err, media.ErrInvalidArgument) {
			handleErr(errors.New("pass either a page url, or both --host and --id"))
		}
		handleErr(err)

		if !file.IsResolvable() {
			handleErr(fmt.Errorf("no resolver found for %s", style.Fg(color.Yellow)(file.Domain())))
		}

		ctx, cancel := resolveContext()
		defer cancel()

		mediaURL, resolver, ok := file.ResolveWith(ctx)
		if !ok {
			handleErr(fmt.Errorf("could not resolve %s", file))
		}

		if viper.GetBool(key.HistorySave) {
			if err := history.Save(history.NewEntry(file, resolver, mediaURL)); err != nil {
				log.Warnf("save history: %v", err)
			}
		}

		result := &inline.Result{
			URL:      file.URL(),
			Host:     file.Host(),
			MediaID:  file.MediaID(),
			Domain:   file.Domain(),
			Resolver: resolver.Name(),
			MediaURL: mediaURL,
		}

		if lo.Must(cmd.Flags().GetBool("labels")) {
			result.Labels, _ = file.MediaLabels(ctx)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(result))
			return
		}

		cmd.Println(mediaURL)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(mediaURL, viper.GetString(key.ResolveOpenApp)))
		}

		if len(result.Labels) > 0 {
			names := lo.Keys(result.Labels)
			sort.Strings(names)
			for _, name := range names {
				cmd.Printf("%s %s\n", style.Faint(name+":"), result.Labels[name])
			}
		}

		log.Infof("%s resolved %s using %s", icon.Get(icon.Success), file.URL(), resolver.Name())
	},
}

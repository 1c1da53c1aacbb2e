package cmd

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/history"
	"github.com/urlresolver/urlresolver/inline"
	"github.com/urlresolver/urlresolver/key"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/util"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("labels", "l", false, "Include the labels of every resolved page in the JSON output")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

var inlineCmd = &cobra.Command{
	Use:   "inline [urls...]",
	Short: "Resolve a batch of page URLs without interaction",
	Long: `Resolve every page URL passed as an argument, or read from standard input one per line when none are given.

Plain output prints one direct media URL per resolved page. Pages that cannot be resolved are skipped.
With the json flag every page is reported, see "inline schema" for the format.`,
	Example: "  cat pages.txt | urlresolver inline --json",
	Run: func(cmd *cobra.Command, args []string) {
		urls := args
		if len(urls) == 0 {
			urls = readLines(os.Stdin)
		}

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			f, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(f.Close)
			writer = f
		}

		recorder := mo.None[inline.Recorder]()
		if viper.GetBool(key.HistorySave) {
			recorder = mo.Some[inline.Recorder](func(file *media.HostedMediaFile, resolver plugin.Resolver, r *inline.Result) error {
				return history.Save(history.NewEntry(file, resolver, r.MediaURL))
			})
		}

		ctx, cancel := resolveContext()
		defer cancel()

		handleErr(inline.Run(ctx, &inline.Options{
			Out:      writer,
			Finder:   loadRegistry(),
			URLs:     urls,
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Labels:   lo.Must(cmd.Flags().GetBool("labels")),
			Recorder: recorder,
		}))
	},
}

func readLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the inline mode output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "result", "output", "labels":
				return path.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}

// Command kyc is a thin CLI over pkg/api: it reads a file, loads an
// optional kyc.config.yaml, calls api.Transform, and reports the result.
// It contains no lexing, parsing, analysis, transform or emitter logic of
// its own — all of that lives in internal/ behind pkg/api.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/pkg/api"
)

var (
	flagDebug  bool
	flagStrict bool
	flagOut    string
	flagFormat string
)

func main() {
	root := &cobra.Command{
		Use:   "kyc",
		Short: "Compiler for the Kythera reactive UI dialect",
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "attach an internal stack trace to pipeline errors")
	root.PersistentFlags().BoolVar(&flagStrict, "strict", false, "promote warnings to errors")

	root.AddCommand(buildCmd(), checkCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a .ky file to JavaScript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			result, err := run(path, false)
			if err != nil {
				return err
			}
			printDiagnostics(result.Diagnostics)
			if result.Code == "" {
				return fmt.Errorf("build failed: %s", summarize(result.Diagnostics))
			}
			if flagOut != "" {
				return os.WriteFile(flagOut, []byte(result.Code), 0o644)
			}
			fmt.Print(result.Code)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write output to this file instead of stdout")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report diagnostics for a .ky file without emitting code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			result, err := run(path, true)
			if err != nil {
				return err
			}
			if flagFormat == "yaml" {
				out, err := yaml.Marshal(result.Diagnostics)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
			} else {
				printDiagnostics(result.Diagnostics)
				fmt.Println(summarize(result.Diagnostics))
			}
			for _, d := range result.Diagnostics {
				if d.Severity == api.SeverityError {
					os.Exit(1)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "output format for diagnostics (text | yaml)")
	return cmd
}

// run loads an optional kyc.config.yaml from the working directory,
// overlays the --debug/--strict flags on top, and invokes api.Transform.
// validate forces the post-emit validator on (kyc check); otherwise the
// config file's validator.enabled decides.
func run(path string, validate bool) (api.Result, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return api.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := config.Default()
	if loaded, err := config.LoadFile("kyc.config.yaml"); err == nil {
		cfg = loaded
	}

	opts := api.TransformOptions{
		FilePath:         path,
		Debug:            flagDebug,
		Strict:           flagStrict || cfg.Strict,
		ValidatorEnabled: validate || cfg.Validator.Enabled,
		Emitter: api.EmitterOptions{
			Indent: cfg.Emitter.Indent,
			RuntimePaths: api.RuntimePaths{
				Core:       cfg.Emitter.RuntimePaths.Core,
				JSXRuntime: cfg.Emitter.RuntimePaths.JSXRuntime,
				Registry:   cfg.Emitter.RuntimePaths.Registry,
				Hooks:      cfg.Emitter.RuntimePaths.Hooks,
			},
			ASCIISafe: cfg.Emitter.ASCIISafe,
		},
	}

	return api.Transform(string(contents), opts), nil
}

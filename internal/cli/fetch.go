package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfetch/pkg/artifacts"
	"github.com/matzehuels/stackfetch/pkg/errors"
	graphio "github.com/matzehuels/stackfetch/pkg/io"
	"github.com/matzehuels/stackfetch/pkg/render/nodelink"
)

// Output formats for the fetch command.
const (
	outputClassPath        = "classpath"
	outputCompileClassPath = "compile-classpath"
	outputUserClassPath    = "user-classpath"
	outputSourcePath       = "sourcepath"
	outputDetails          = "details"
	outputJSON             = "json"
)

var outputFormats = []string{outputClassPath, outputCompileClassPath, outputUserClassPath, outputSourcePath, outputDetails, outputJSON}

// fetchOptions holds flags for the fetch command.
type fetchOptions struct {
	req      artifacts.Request
	output   string
	graph    string
	detailed bool
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch [dependency...]",
		Short: "Resolve dependencies and print a classpath",
		Long: `Resolve dependencies, download their artifacts and print the result.

Dependencies use the org:name:version form; org::name:version appends the
Scala binary version and org::name::version also the platform suffix.
Parameters follow a comma: org:name:version,intransitive,classifier=tests,url=<jar>.`,
		Example: `  # Classpath for a Java library
  stackfetch fetch com.google.guava:guava:32.1.3-jre

  # Scala 3 with sources, a runner and a graph of the resolution
  stackfetch fetch --scala 3.3.1 org.typelevel::cats-core:2.10.0 --sources --runner --graph deps.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.req.Dependencies = append(opts.req.Dependencies, args...)
			return c.runFetch(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.req.Dependencies, "dependency", "d", nil, "dependency to fetch (repeatable)")
	f.StringArrayVarP(&opts.req.Repositories, "repository", "r", nil, "repository: central, sonatype:<name>, jitpack, m2Local or a URL (repeatable)")
	f.StringVar(&opts.req.Scala, "scala", "", "Scala version")
	f.StringVar(&opts.req.Platform, "platform", "", "Scala platform: jvm, js or native")
	f.StringVar(&opts.req.PlatformVersion, "platform-version", "", "Scala.js or Scala Native version")
	f.StringArrayVar(&opts.req.CompilerPlugins, "compiler-plugin", nil, "Scala compiler plugin (repeatable)")
	f.StringArrayVar(&opts.req.JavacPlugins, "javac-plugin", nil, "javac plugin / annotation processor (repeatable)")
	f.StringArrayVar(&opts.req.ClassPath, "extra-jar", nil, "extra classpath entry (repeatable)")
	f.StringArrayVar(&opts.req.CompileOnly, "compile-only-jar", nil, "compile-only classpath entry (repeatable)")
	f.StringArrayVar(&opts.req.SourceJars, "source-jar", nil, "extra source jar (repeatable)")
	f.BoolVar(&opts.req.Sources, "sources", false, "also fetch source jars")
	f.BoolVar(&opts.req.Stubs, "stubs", false, "add compile-time stubs")
	f.BoolVar(&opts.req.Runner, "runner", false, "add the JVM runner")
	f.BoolVar(&opts.req.TestRunner, "test-runner", false, "add the JVM test runner")
	f.StringVar(&opts.req.JMH, "jmh", "", "JMH version to add the bytecode generator for")
	f.BoolVar(&opts.req.ToolCLI, "tool-cli", false, "fetch the Scala.js or Scala Native CLI for the platform")
	f.StringVar(&opts.req.ScalaPy, "scalapy", "", "ScalaPy version")
	f.StringSliceVar(&opts.req.Recover, "recover", nil, "error codes to tolerate, e.g. FETCHING_DEPENDENCIES")
	f.StringVarP(&opts.output, "output", "o", outputClassPath, "output: "+strings.Join(outputFormats, ", "))
	f.StringVar(&opts.graph, "graph", "", "write the resolution graph to a file (.svg, .png, .dot or .json)")
	f.BoolVar(&opts.detailed, "detailed", false, "include repositories in graph labels")

	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("platform", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"jvm", "js", "native"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, opts fetchOptions) error {
	if !slices.Contains(outputFormats, opts.output) {
		return fmt.Errorf("unknown output %q (want one of %s)", opts.output, strings.Join(outputFormats, ", "))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	repos, err := cfg.RepositoryList()
	if err != nil {
		return err
	}

	opts.req.KeepResolution = opts.graph != ""
	params, err := opts.req.Params(repos, cfg.Versions)
	if err != nil {
		printReport(err)
		return err
	}

	runner, mc, err := c.newRunner(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer mc.Close()

	spinner := newSpinner(ctx, "Resolving dependencies...")
	runner.Progress = spinner.SetMessage
	prog := newProgress(loggerFromContext(ctx))
	spinner.Start()
	b, err := runner.Run(ctx, params)
	spinner.Stop()
	if err != nil {
		printReport(err)
		return err
	}
	prog.done("Fetched artifacts", "count", len(b.Artifacts()), "user", len(b.UserDependencies))

	if opts.graph != "" {
		if err := writeGraph(ctx, b, opts.graph, opts.detailed); err != nil {
			return err
		}
		printFile(opts.graph)
	}
	return printBundle(b, opts.output)
}

func printBundle(b *artifacts.Bundle, output string) error {
	switch output {
	case outputCompileClassPath:
		printPath(b.CompileClassPath())
	case outputUserClassPath:
		printPath(b.UserClassPath())
	case outputSourcePath:
		printPath(b.SourcePath())
	case outputDetails:
		fmt.Println(detailsTable(b))
	case outputJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	default:
		printPath(b.ClassPath())
	}
	return nil
}

func printPath(paths []string) {
	fmt.Println(strings.Join(paths, string(os.PathListSeparator)))
}

// detailsTable renders one row per downloaded artifact.
func detailsTable(b *artifacts.Bundle) string {
	rows := make([][]string, 0, len(b.DetailedArtifacts))
	for _, a := range b.DetailedArtifacts {
		classifier := a.Publication.Classifier
		if classifier == "" {
			classifier = "-"
		}
		rows = append(rows, []string{
			a.Dependency.Module.String(),
			a.Dependency.Version,
			classifier,
			a.Path,
		})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("MODULE", "VERSION", "CLASSIFIER", "PATH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 {
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle
		}).
		String()
}

func writeGraph(ctx context.Context, b *artifacts.Bundle, path string, detailed bool) error {
	if b.Resolution == nil {
		return fmt.Errorf("no resolution graph to write")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return graphio.ExportJSON(b.Resolution, path)
	}
	dot := nodelink.ToDOT(b.Resolution, nodelink.Options{Detailed: detailed})
	data, err := nodelink.Render(ctx, dot, nodelink.FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// printReport lists every failure of a composite error with its positions.
func printReport(err error) {
	lines := errors.Report(err)
	if len(lines) < 2 {
		return
	}
	printError("%d failures", len(lines))
	for _, l := range lines {
		printDetail("%s", l)
	}
}

// Command jme evaluates and simplifies JME expressions.
//
// Usage:
//
//	jme [-config FILE] eval [-var name=expr]... EXPR
//	jme [-config FILE] simplify [-rules SPEC] EXPR
//	jme [-config FILE] vars [-runs N] [-save NAME] FILE.yaml
//	jme [-config FILE] vars -stored NAME
//	jme [-config FILE] rulesets [-load FILE.yaml]
//
// Settings come from the config file and JME_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/config"
	"github.com/randalmurphal/jme/pkg/jme/engine"
	"github.com/randalmurphal/jme/pkg/jme/token"
	"github.com/randalmurphal/jme/pkg/jme/variables"
)

const usage = `usage: jme [-config FILE] COMMAND [ARGS]

commands:
  eval [-var name=expr]... EXPR     evaluate an expression
  simplify [-rules SPEC] EXPR       simplify an expression
  vars [-runs N] [-save NAME] FILE  compute a variable set
  vars -stored NAME                 compute a stored variable set
  rulesets [-load FILE]             list rulesets, saving any in FILE first
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.Environ()))
}

// run executes one command and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ []string) int {
	fs := flag.NewFlagSet("jme", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "config file (.yaml, .yml or .json)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	eng, err := open(*configPath, environ, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "jme:", err)
		return 1
	}
	defer eng.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var cmdErr error
	switch cmd {
	case "eval":
		cmdErr = evalCmd(ctx, eng, rest, stdout, stderr)
	case "simplify":
		cmdErr = simplifyCmd(ctx, eng, rest, stdout, stderr)
	case "vars":
		cmdErr = varsCmd(ctx, eng, rest, stdout, stderr)
	case "rulesets":
		cmdErr = rulesetsCmd(ctx, eng, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "jme: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	if errors.Is(cmdErr, flag.ErrHelp) || errors.Is(cmdErr, errUsage) {
		return 2
	}
	if cmdErr != nil {
		fmt.Fprintln(stderr, "jme:", cmdErr)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func open(path string, environ []string, stderr io.Writer) (*engine.Engine, error) {
	cfg := config.New(nil)
	if path != "" {
		var err error
		if cfg, err = config.FromFile(path); err != nil {
			return nil, err
		}
	}
	cfg = config.FromEnv(cfg, environ)

	settings := config.SettingsFrom(cfg)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: settings.Level()}))
	return engine.New(engine.WithSettings(settings), engine.WithLogger(logger))
}

// parseFlags parses a subcommand's flags. The flag package has already
// reported a bad flag, so any failure becomes errUsage.
func parseFlags(fs *flag.FlagSet, args []string, stderr io.Writer) error {
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// subcommand parses a subcommand's flags and requires exactly one
// positional argument.
func subcommand(name string, fs *flag.FlagSet, args []string, stderr io.Writer, what string) (string, error) {
	if err := parseFlags(fs, args, stderr); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "jme %s: expected one %s\n", name, what)
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func evalCmd(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	defs := make(map[string]string)
	fs.Func("var", "name=expr variable definition (any number of times)", func(s string) error {
		name, def, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf(`variable definitions must be "name=expr", not %q`, s)
		}
		defs[strings.TrimSpace(name)] = strings.TrimSpace(def)
		return nil
	})
	expr, err := subcommand("eval", fs, args, stderr, "expression")
	if err != nil {
		return err
	}

	scope := eng.Scope()
	if len(defs) > 0 {
		res, err := eng.MakeVariables(ctx, variables.Document{Variables: defs}, 1)
		if err != nil {
			return err
		}
		scope = res.Scope
	}
	out, err := eng.EvaluateIn(ctx, expr, scope)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

func simplifyCmd(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("simplify", flag.ContinueOnError)
	rules := fs.String("rules", "", "ruleset spec, e.g. \"all, !collectNumbers\" (default from config)")
	expr, err := subcommand("simplify", fs, args, stderr, "expression")
	if err != nil {
		return err
	}

	out, err := eng.Simplify(ctx, expr, *rules)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

func varsCmd(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("vars", flag.ContinueOnError)
	runs := fs.Int("runs", 100, "attempts to satisfy the condition")
	save := fs.String("save", "", "store the variable set under this name")
	stored := fs.Bool("stored", false, "the argument names a stored variable set")
	arg, err := subcommand("vars", fs, args, stderr, "file or name")
	if err != nil {
		return err
	}

	var doc variables.Document
	if *stored {
		if doc, err = eng.LoadVariables(arg); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		if doc, err = variables.ParseDocument(data); err != nil {
			return err
		}
	}

	if *save != "" {
		version, err := eng.SaveVariables(ctx, *save, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "saved %s version %d\n", *save, version)
	}

	res, err := eng.MakeVariables(ctx, doc, *runs)
	if err != nil {
		return err
	}
	if !res.ConditionSatisfied {
		fmt.Fprintln(stdout, "condition not satisfied")
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(res.Values)) {
		fmt.Fprintf(stdout, "%s = %s\n", name, token.RenderToken(res.Values[name]))
	}
	return nil
}

func rulesetsCmd(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rulesets", flag.ContinueOnError)
	load := fs.String("load", "", "YAML file of rulesets to save before listing")
	if err := parseFlags(fs, args, stderr); err != nil {
		return err
	}

	if *load != "" {
		data, err := os.ReadFile(*load)
		if err != nil {
			return err
		}
		docs, err := jme.ParseRulesetFile(data)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err := eng.SaveRuleset(ctx, doc); err != nil {
				return fmt.Errorf("ruleset %s: %w", doc.Name, err)
			}
		}
	}

	infos, err := eng.StoredRulesets()
	if err != nil {
		return err
	}
	versions := make(map[string]int, len(infos))
	for _, info := range infos {
		versions[info.Name] = info.Version
	}
	for _, name := range eng.RulesetNames() {
		if v, ok := versions[name]; ok {
			fmt.Fprintf(stdout, "%s (stored v%d)\n", name, v)
			continue
		}
		fmt.Fprintln(stdout, name)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"emx/abbr"
	"emx/common"
	"emx/config"
	"emx/state"
)

// readInput returns the document text from the first argument or, when no
// argument is given, from stdin.
func readInput(cmd *cli.Command) (string, error) {
	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return "", fmt.Errorf("unable to read input file '%s': %w", fname, err)
	}
	return string(data), nil
}

func printRanges(ranges []common.Range) {
	for _, r := range ranges {
		fmt.Printf("%d %d\n", r.Start, r.End)
	}
}

func runExpand(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	abbrText := cmd.Args().Get(0)
	if len(abbrText) == 0 {
		return fmt.Errorf("nothing to expand, abbreviation argument is missing")
	}

	caller := &config.UserConfig{Syntax: cmd.String("syntax")}
	if t := cmd.String("type"); len(t) > 0 {
		caller.Type = t
	} else if env.Cfg.Syntax.IsStylesheet(caller.Syntax) {
		caller.Type = config.TypeStylesheet
	}

	out, err := env.Dispatcher.Expand(abbrText, caller)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	code, err := readInput(cmd)
	if err != nil {
		return err
	}

	res := env.Dispatcher.Extract(code, int(cmd.Int("pos")), cmd.String("type"), abbr.ExtractOptions{Prefix: cmd.String("prefix")})
	if res == nil {
		env.Log.Info("No abbreviation at position", zap.Int("pos", int(cmd.Int("pos"))))
		return nil
	}
	fmt.Printf("%d %d %s\n", res.Location.Start, res.Location.End, res.Abbreviation)
	return nil
}

func runBalance(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	code, err := readInput(cmd)
	if err != nil {
		return err
	}

	pos := int(cmd.Int("pos"))
	if cmd.Bool("css") || env.Cfg.Syntax.IsStylesheet(cmd.String("syntax")) {
		printRanges(env.Dispatcher.BalanceCSS(code, pos, cmd.Bool("inward")))
		return nil
	}
	xml := cmd.Bool("xml") || env.Cfg.Syntax.IsXML(cmd.String("syntax"))
	printRanges(env.Dispatcher.Balance(code, pos, cmd.Bool("inward"), xml))
	return nil
}

func runSelect(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	code, err := readInput(cmd)
	if err != nil {
		return err
	}

	sel := env.Dispatcher.SelectItem(code, int(cmd.Int("pos")), cmd.Bool("css"), cmd.Bool("previous"))
	if sel == nil {
		env.Log.Info("No item to select", zap.Int("pos", int(cmd.Int("pos"))))
		return nil
	}
	fmt.Printf("%d %d\n", sel.Range.Start, sel.Range.End)
	printRanges(sel.Ranges)
	return nil
}

func runContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	code, err := readInput(cmd)
	if err != nil {
		return err
	}

	pos := int(cmd.Int("pos"))
	doc := common.NewDocument(code, pos, cmd.String("syntax"))

	var xml *bool
	if cmd.IsSet("xml") {
		v := cmd.Bool("xml")
		xml = &v
	}

	tag := env.Dispatcher.GetTagContext(doc, pos, xml)
	if tag == nil {
		env.Log.Info("No enclosing tag at position", zap.Int("pos", pos))
		return nil
	}

	fmt.Printf("%s %s", tag.Name, tag.Open)
	if tag.Close != nil {
		fmt.Printf(" %s", *tag.Close)
	}
	fmt.Println()
	for name, value := range tag.Attributes {
		if value == nil {
			fmt.Println(name)
			continue
		}
		fmt.Printf("%s=%s\n", name, *value)
	}
	return nil
}

func runOptions(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	code, err := readInput(cmd)
	if err != nil {
		return err
	}

	pos := int(cmd.Int("pos"))
	doc := common.NewDocument(code, pos, cmd.String("syntax"))

	cfg := env.Dispatcher.GetOptions(doc, pos)
	fmt.Printf("type: %s\nsyntax: %s\ninline: %t\n", cfg.Type, cfg.Syntax, cfg.Inline)
	if cfg.Context != nil {
		if cfg.Context.Kind == config.KindMarkup {
			fmt.Printf("ancestors: %v\n", cfg.Context.Ancestors)
		} else {
			fmt.Printf("enclosing: %s\n", cfg.Context.Enclosing)
		}
	}
	return nil
}

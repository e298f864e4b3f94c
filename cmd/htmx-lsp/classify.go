package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/protocol"

	"github.com/cristianoliveira/htmx-lsp/lsp"
)

var errClassifyArgs = errors.New("expected FILE LINE CHARACTER")

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Print the completion context at a position in an HTML file",
		ArgsUsage: "FILE LINE CHARACTER",
		Description: `Reports what the server would complete at a 0-based LSP position
(CHARACTER counts UTF-16 code units), e.g.:

  htmx-lsp classify index.html 3 17`,
		Action: runClassify,
	}
}

func runClassify(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() != 3 {
		return errClassifyArgs
	}

	line, err := parsePosition(args.Get(1))
	if err != nil {
		return fmt.Errorf("line: %w", err)
	}

	character, err := parsePosition(args.Get(2))
	if err != nil {
		return fmt.Errorf("character: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(args.Get(0))
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Get(0), err)
	}

	result, err := lsp.Classify(ctx, source, protocol.Position{Line: line, Character: character}, cfg.Options())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, result)

	return err
}

func parsePosition(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	sexp "github.com/alttpo/kicad-sexp"
	sexplua "github.com/alttpo/kicad-sexp/lua"
)

type globalFlags struct {
	flagset *flag.FlagSet
	input   string
	format  string
	compact bool
	output  string
	verbose bool
}

func newGlobalFlags(name string) *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	f.flagset.StringVar(
		&f.input,
		"in",
		"sexp",
		"input format: sexp, cbor or lua",
	)
	f.flagset.StringVar(
		&f.format,
		"format",
		"sexp",
		"output format: sexp, cbor or lua",
	)
	f.flagset.BoolVar(
		&f.compact,
		"compact",
		false,
		"write s-expressions on a single line",
	)
	f.flagset.StringVar(
		&f.output,
		"o",
		"",
		"output file (defaults to stdout)",
	)
	f.flagset.BoolVar(&f.verbose, "v", false, "enable debug logging")
	return f
}

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f := newGlobalFlags(args[0])
	f.flagset.SetOutput(stderr)
	if err := f.flagset.Parse(args[1:]); err != nil {
		return errors.Wrap(err, "failed to parse command args")
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	in := stdin
	source := "stdin"
	if f.flagset.NArg() > 0 {
		source = f.flagset.Arg(0)
		file, err := os.Open(source)
		if err != nil {
			return errors.Wrap(err, "failed to open input")
		}
		defer file.Close()
		in = file
	}

	logger.Debug("parsing", "source", source, "format", f.input)
	tree, err := readTree(in, f.input)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", source)
	}
	logger.Debug("parsed", "source", source, "head", tree.Head(), "children", len(tree.List))

	var out []byte
	switch f.format {
	case "sexp":
		if f.compact {
			out, err = sexp.Marshal(tree)
		} else {
			out, err = sexp.MarshalIndent(tree)
		}
		out = append(out, '\n')
	case "cbor":
		out, err = encodeCBOR(tree)
	case "lua":
		var sb strings.Builder
		err = sexplua.Encode(&sb, tree)
		out = []byte(sb.String())
	default:
		return errors.Errorf("unknown output format %q", f.format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", f.format)
	}

	w := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return errors.Wrap(err, "failed to create output")
		}
		defer file.Close()
		w = file
	}
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	logger.Debug("done", "format", f.format, "bytes", len(out))
	return nil
}

func readTree(r io.Reader, format string) (*sexp.Node, error) {
	switch format {
	case "sexp":
		return sexp.Parse(r)
	case "cbor":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return decodeCBOR(data)
	case "lua":
		return sexplua.Decode(r)
	}
	return nil, errors.Errorf("unknown input format %q", format)
}

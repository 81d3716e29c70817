// Command jsonkv reads and edits jsonkv document stores from the shell.
//
//	jsonkv [flags] <command> [args...]
//
// Values given as arguments are parsed as JSON; anything that does not parse
// is taken as a plain string, so `jsonkv set name alice` stores "alice".
// Results are printed to stdout as JSON and logs go to stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jpl-au/jsonkv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const usage = `usage: jsonkv [flags] <command> [args...]

commands:
  get <key>              print the value stored at key
  set <key> <value>      store value at key
  delete <key>           remove key and print its old value
  keys                   print all keys
  all                    print the whole document
  type <key>             print the kind of the value at key
  push <key> <value>...  append values to the array at key
  pop <key> [n]          remove and print the last n elements (default 1)
  add <key> <n>          add n to the number at key
  docs                   list the documents in the store
  backup <file>          write a compressed snapshot of the document
  restore <file>         load a snapshot written by backup

flags:
`

func main() {
	if err := mainImpl(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "jsonkv: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("jsonkv", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	dir := fs.String("dir", ".", "Store directory")
	doc := fs.String("doc", "", "Document name (default: the store's default document)")
	configPath := fs.String("config", "", "YAML config file")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	spaces := fs.Int("spaces", 0, "Indent width on disk, overrides the config file (negative for compact)")
	force := fs.Bool("force", false, "Let restore overwrite an existing document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no command given")
	}

	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", *logLevel)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *spaces != 0 {
		cfg.Spaces = *spaces
	}
	cfg.Logger = logger

	store, err := jsonkv.Open(*dir, cfg)
	if err != nil {
		return err
	}
	runErr := run(store, store.Document(*doc), fs.Args(), *force, stdout)
	return errors.Join(runErr, store.Close())
}

func run(store *jsonkv.Store, d *jsonkv.Doc, args []string, force bool, stdout io.Writer) error {
	cmd, args := args[0], args[1:]
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "get":
		if err := need(1); err != nil {
			return err
		}
		v, err := d.Get(args[0], nil)
		if err != nil {
			return err
		}
		if v.IsUndefined() {
			return fmt.Errorf("get: key %q not found", args[0])
		}
		return printJSON(stdout, v)

	case "set":
		if err := need(2); err != nil {
			return err
		}
		return d.Set(args[0], parseArg(args[1]))

	case "delete":
		if err := need(1); err != nil {
			return err
		}
		old, ok, err := d.Delete(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("delete: key %q not found", args[0])
		}
		return printJSON(stdout, old)

	case "keys":
		keys, err := d.Keys()
		if err != nil {
			return err
		}
		return printJSON(stdout, keys)

	case "all":
		all, err := d.All()
		if err != nil {
			return err
		}
		return printJSON(stdout, all)

	case "type":
		if err := need(1); err != nil {
			return err
		}
		k, err := d.TypeOf(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, k)
		return err

	case "push":
		if err := need(2); err != nil {
			return err
		}
		values := make([]any, 0, len(args)-1)
		for _, a := range args[1:] {
			values = append(values, parseArg(a))
		}
		n, err := d.PushAll(args[0], values...)
		if err != nil {
			return err
		}
		return printJSON(stdout, n)

	case "pop":
		if err := need(1); err != nil {
			return err
		}
		n := 1
		if len(args) > 1 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("pop: invalid count %q", args[1])
			}
		}
		items, err := d.Pop(args[0], n)
		if err != nil {
			return err
		}
		return printJSON(stdout, jsonkv.Array(items...))

	case "add":
		if err := need(2); err != nil {
			return err
		}
		n, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("add: invalid number %q", args[1])
		}
		total, err := d.Add(args[0], n)
		if err != nil {
			return err
		}
		return printJSON(stdout, total)

	case "docs":
		for name, err := range store.List() {
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(stdout, name); err != nil {
				return err
			}
		}
		return nil

	case "backup":
		if err := need(1); err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := store.Backup(d.Name(), f); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case "restore":
		if err := need(1); err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return store.Restore(d.Name(), f, force)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// parseArg reads a command-line value as JSON, falling back to a string.
func parseArg(s string) jsonkv.Value {
	if v, err := jsonkv.ParseValue([]byte(s)); err == nil {
		return v
	}
	return jsonkv.String(s)
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

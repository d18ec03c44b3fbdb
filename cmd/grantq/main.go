// Command grantq prints the backend query a filter maps to.
//
//	grantq --preset high-funding --filter '{"searchTerm":"water"}'
//	grantq --filter @filter.json --now 2025-03-15T12:00:00Z --encode
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"grantify/internal/filter"
	"grantify/internal/search"

	flag "github.com/spf13/pflag"
)

type options struct {
	presets     []string
	filterArg   string
	now         time.Time
	encode      bool
	listPresets bool
}

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:], time.Now))
}

func run(out, errOut io.Writer, args []string, clock func() time.Time) int {
	opts, code := parseFlags(errOut, args, clock)
	if code >= 0 {
		return code
	}

	if opts.listPresets {
		for _, p := range filter.Presets() {
			fmt.Fprintf(out, "%-20s %s\n", strings.ToLower(string(p.Key)), p.Label)
		}
		return 0
	}

	f, err := buildFilter(opts)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	params := filter.ToQuery(f, opts.now)

	if opts.encode {
		fmt.Fprintln(out, params.Encode())
		return 0
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(out, "%s=%s\n", k, strings.Join(params[k], ","))
	}

	return 0
}

// parseFlags returns code -1 when the command should continue.
func parseFlags(errOut io.Writer, args []string, clock func() time.Time) (options, int) {
	flagSet := flag.NewFlagSet("grantq", flag.ContinueOnError)
	flagSet.SetOutput(errOut)

	presets := flagSet.StringSlice("preset", nil, "Apply a preset (repeatable, applied in order)")
	filterArg := flagSet.String("filter", "", "Filter JSON, or @path to read it from a file")
	now := flagSet.String("now", "", "Resolve relative deadlines at this RFC3339 time instead of now")
	encode := flagSet.Bool("encode", false, "Print the URL-encoded query string")
	listPresets := flagSet.Bool("list-presets", false, "List the available presets and exit")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return options{}, 0
		}
		return options{}, 2
	}

	opts := options{
		presets:     *presets,
		filterArg:   *filterArg,
		now:         clock(),
		encode:      *encode,
		listPresets: *listPresets,
	}

	if *now != "" {
		t, err := time.Parse(time.RFC3339, *now)
		if err != nil {
			fmt.Fprintln(errOut, "error: invalid --now:", err)
			return options{}, 2
		}
		opts.now = t
	}

	return opts, -1
}

// buildFilter decodes the filter over the defaults, applies the presets
// and normalizes the result.
func buildFilter(opts options) (filter.Filter, error) {
	f := filter.Default()

	if opts.filterArg != "" {
		data := []byte(opts.filterArg)
		if path, ok := strings.CutPrefix(opts.filterArg, "@"); ok {
			var err error
			if data, err = os.ReadFile(path); err != nil {
				return filter.Filter{}, fmt.Errorf("read filter: %w", err)
			}
		}

		if err := json.Unmarshal(data, &f); err != nil {
			return filter.Filter{}, fmt.Errorf("decode filter: %w", err)
		}
	}

	for _, name := range opts.presets {
		key, ok := filter.ParsePresetKey(name)
		if !ok {
			return filter.Filter{}, fmt.Errorf("unknown preset %q (see --list-presets)", name)
		}
		_, f = search.ApplyPreset(f, key)
	}

	return filter.Normalize(f), nil
}

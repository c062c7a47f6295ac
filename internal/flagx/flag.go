// Package flagx lets several configuration layers share one command line.
// Each layer extracts only the flags it owns and parses them with its own
// flag.FlagSet, so unknown flags from other layers never cause errors.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the named flags.
//
// valued flags take an argument, either as "-f value" or "-f=value".
// switches are boolean flags; they are kept as "-f" or "-f=true|false" and
// never consume the following argument.
func FilterArgs(args []string, valued []string, switches []string) []string {
	isValued := toSet(valued)
	isSwitch := toSet(switches)

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := isSwitch[name]; ok {
			filtered = append(filtered, arg)
			continue
		}
		if _, ok := isValued[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the JSON config path given with -c or -config,
// or an empty string.
func ConfigPath(args []string) string {
	return stringFlag(args, "config", "c")
}

// EnvPath returns the dotenv file path given with -env, or an empty string.
func EnvPath(args []string) string {
	return stringFlag(args, "env")
}

func stringFlag(args []string, names ...string) string {
	var value string

	dashed := make([]string, 0, len(names)*2)
	fs := flag.NewFlagSet(names[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
		dashed = append(dashed, "-"+n, "--"+n)
	}

	_ = fs.Parse(FilterArgs(args, dashed, nil))
	return value
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

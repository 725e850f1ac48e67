// Package flagx helps several independent flag sets share one command line.
// Each consumer keeps only the arguments it understands and parses them with
// its own flag.FlagSet, so unknown flags from other consumers never fail a
// parse.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps the arguments in args that belong to allowed flag names,
// in their original order. Both "-f value" and "-f=value" forms are
// recognised; a following token is taken as the value only if it does not
// itself start with "-".
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := names[name]; known {
				kept = append(kept, arg)
			}
			continue
		}

		if _, known := names[arg]; !known {
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}

	return kept
}

// ConfigFile returns the configuration file path given with -c or -config
// in args, or an empty string.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

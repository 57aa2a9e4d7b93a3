// Package flagx lets independent config layers pick their own flags out of
// os.Args without tripping over flags that belong to another layer.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// argument that starts with "-" is never treated as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ValueOf returns the value given to any of the aliases in args, the last
// occurrence winning. Aliases are flag names without the leading dash.
func ValueOf(args []string, aliases ...string) string {
	var value string

	names := make([]string, 0, len(aliases)*2)
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, a := range aliases {
		fs.StringVar(&value, a, "", "")
		names = append(names, "-"+a, "--"+a)
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}

// ConfigFile returns the JSON config path passed with -c or -config.
func ConfigFile() string {
	return ValueOf(os.Args[1:], "c", "config")
}

// EnvFile returns the dotenv path passed with -env.
func EnvFile() string {
	return ValueOf(os.Args[1:], "env")
}

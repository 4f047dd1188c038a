package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootFlagAliases = map[string]string{
	"output": "format",
	"store":  "backend",
}

func init() {
	setFlagAliases(rootCmd, rootFlagAliases)
}

// setFlagAliases makes each alias parse as its target flag on cmd and every
// subcommand. Aliases do not appear in usage.
func setFlagAliases(cmd *cobra.Command, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := cmd.GlobalNormalizationFunc()
	cmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		if normalize != nil {
			return normalize(f, name)
		}
		return pflag.NormalizedName(name)
	})
}

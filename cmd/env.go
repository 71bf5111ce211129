package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// envFlags maps environment variables onto run flags. A variable only
// applies when the flag was not given on the command line.
var envFlags = map[string]string{
	"LINESIM_LOG":         "log",
	"LINESIM_SEED_OFFSET": "seed-offset",
	"LINESIM_PARALLELISM": "parallelism",
}

// applyEnvDefaults loads path (if set) into the environment without
// overriding existing variables, then copies LINESIM_* values into flags
// the user left unset.
func applyEnvDefaults(cmd *cobra.Command, path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		logrus.Debugf("loaded env file %s", path)
	}
	for env, flag := range envFlags {
		val, ok := os.LookupEnv(env)
		if !ok || cmd.Flags().Changed(flag) {
			continue
		}
		if err := cmd.Flags().Set(flag, val); err != nil {
			return fmt.Errorf("%s=%q: %w", env, val, err)
		}
	}
	return nil
}

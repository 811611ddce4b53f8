// Command tickdemo exercises the loopkit runtime end to end: "run" drives
// the tick-to-quit scenario, "fetch" drives the blocking-effect-interop
// scenario.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halvardm/loopkit"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "tickdemo",
		Short: "Demonstrates the loopkit program runtime",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")

	root.AddCommand(runCmd(&cfgPath), fetchCommand(&cfgPath))
	return root
}

func runCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Count ticks to completion, printing one line per tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			p := loopkit.NewProgram(&tickModel{cfg: cfg})
			_, err = p.Run(context.Background(), os.Stdout)
			return err
		},
	}
}

func fetchCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Retry a flaky blocking call while an async counter keeps ticking",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			p := loopkit.NewProgram(&fetchModel{cfg: cfg})
			_, err = p.Run(context.Background(), os.Stdout)
			return err
		},
	}
}

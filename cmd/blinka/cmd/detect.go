// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/warthog618/go-blinka/board"
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/platform"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Identify the platform",
	Long: `Identify the board and chip, and the backends that serve them.

The detected platform may be overridden using the BLINKA_FORCEBOARD and
BLINKA_FORCECHIP environment variables, or the board and chip in the config.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b := openBoard(cfg)
	i := b.Info()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "board: %s\n", name(string(i.Board)))
	fmt.Fprintf(w, "chip:  %s\n", name(string(i.Chip)))
	if simulate {
		return nil
	}
	ports := cfg.Ports()
	printBackend(w, "pins", board.DefaultDrivers(), i)
	printBackend(w, "spi", busio.DefaultBackends(ports...), i)
	return nil
}

func printBackend[F any](w io.Writer, kind string, t platform.Table[F], i platform.Info) {
	e, ok := t.Match(i)
	switch {
	case !ok:
		fmt.Fprintf(w, "%-5s  unsupported\n", kind+":")
	case e.Factory == nil:
		fmt.Fprintf(w, "%-5s  %s (not implemented)\n", kind+":", e.Name)
	default:
		fmt.Fprintf(w, "%-5s  %s\n", kind+":", e.Name)
	}
}

func name(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

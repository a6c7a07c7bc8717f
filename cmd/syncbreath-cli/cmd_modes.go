package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"syncbreath/internal/storage"
	"syncbreath/resources"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List meditation modes and their breathing patterns",
	Args:  cobra.NoArgs,
	RunE:  runModes,
}

func runModes(cmd *cobra.Command, args []string) error {
	modes, err := resources.Modes()
	if err != nil {
		return err
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	settings, err := storage.LoadSettingsFile(path)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}

	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "ID\tTITLE\tPATTERN\tSOUNDS")
	for _, mode := range modes {
		marker := ""
		if mode.ID == settings.Mode {
			marker = " *"
		}
		sounds := make([]string, 0, len(mode.Sounds))
		for _, sound := range mode.Sounds {
			sounds = append(sounds, sound.Name)
		}
		fmt.Fprintf(out, "%s%s\t%s\t%s\t%s\n", mode.ID, marker, mode.Title, settings.PatternFor(mode), strings.Join(sounds, ", "))
	}
	return out.Flush()
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/thirteenf/internal/tui"
	"github.com/Veraticus/thirteenf/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	var (
		theme     string
		noNumbers bool
		noMouse   bool
	)

	cmd := &cobra.Command{
		Use:   "review <list.bad.txt>",
		Short: "Browse rejected lines",
		Long:  `Open a reject file in a scrollable full-screen viewer to check that no security record was dropped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunReview(cmd.Context(), args[0],
				tui.WithTheme(themes.ByName(theme)),
				tui.WithLineNumbers(!noNumbers),
				tui.WithMouse(!noMouse),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin)")
	cmd.Flags().BoolVar(&noNumbers, "no-numbers", false, "hide line numbers")
	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "disable mouse wheel scrolling")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mverett/fabula/internal/diagram"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the built-in sample story as a diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		g, err := demoGraph()
		if err != nil {
			return err
		}
		model := diagram.FromGraph(g)

		switch format {
		case "mermaid":
			out := diagram.RenderMermaid(model)
			if output == "" {
				fmt.Print(out)
				return nil
			}
			return os.WriteFile(output, []byte(out), 0o644)
		case "png":
			if output == "" {
				return fmt.Errorf("png format requires --output")
			}
			data, err := diagram.RenderImage(model)
			if err != nil {
				return err
			}
			return os.WriteFile(output, data, 0o644)
		default:
			return fmt.Errorf("unknown format %q (want mermaid or png)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid or png")
	graphCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
}

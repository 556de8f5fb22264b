package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mverett/fabula/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the built-in sample story for consistency",
	Run: func(cmd *cobra.Command, args []string) {
		g, err := demoGraph()
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if problems := validation.ValidateGraph(g); len(problems) > 0 {
			for _, p := range problems {
				fmt.Println(p)
			}
			os.Exit(1)
		}
		fmt.Println("Graph is valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

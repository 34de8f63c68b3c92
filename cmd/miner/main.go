package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ruffminer",
	Short: "Mines ruff violations across the commit history of GitHub repositories",
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

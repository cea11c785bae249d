package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handex",
	Short: "Rearranges multi-track MIDI for two hands at one piano",
	Long:  `Rearranges multi-track MIDI for two hands at one piano, keeping each hand under a configurable polyphony ceiling.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

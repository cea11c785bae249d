package cmd

import (
	"fmt"

	"github.com/jsphweid/handex/classify"
	"github.com/jsphweid/handex/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "Shows how tracks would be classified",
	Long:  `Shows how tracks would be classified`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	src, err := midi.ReadFile(path)
	if err != nil {
		return err
	}

	tracks := midi.Tracks(src)
	classified := classify.Classify(tracks)
	fmt.Printf("%v source tracks, %v playable\n", len(tracks), len(classified))
	for _, t := range classified {
		fmt.Printf("track %v (%q): channel=%v notes=%v avgPitch=%.1f role=%v\n",
			t.Index, t.Name, t.Channel, len(t.Notes), t.AvgPitch, t.Role)
	}
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/handex/arrange"
	"github.com/jsphweid/handex/config"
	"github.com/jsphweid/handex/constants"
	"github.com/jsphweid/handex/emit"
	"github.com/jsphweid/handex/midi"
	"github.com/spf13/cobra"
)

// The CLI front-end ships with tighter ceilings than the library
// defaults.
const (
	cliDefaultMaxRight = 4
	cliDefaultMaxLeft  = 3
)

var (
	arrangeSplitPoint     int
	arrangeMaxRight       int
	arrangeMaxLeft        int
	arrangeDynamicSplit   bool
	arrangePreserveMelody bool
	arrangePreserveBass   bool
	arrangeConfigPath     string
)

func init() {
	f := arrangeCmd.Flags()
	f.IntVar(&arrangeSplitPoint, "split-point", constants.DefaultSplitPoint, "pitch below which non-melody notes go to the left hand")
	f.IntVar(&arrangeMaxRight, "max-right", cliDefaultMaxRight, "most notes the right hand may hold at once")
	f.IntVar(&arrangeMaxLeft, "max-left", cliDefaultMaxLeft, "most notes the left hand may hold at once")
	f.BoolVar(&arrangeDynamicSplit, "dynamic-split-point", false, "accepted for forward compatibility; not consumed yet")
	f.BoolVar(&arrangePreserveMelody, "preserve-melody", false, "accepted for forward compatibility; not consumed yet")
	f.BoolVar(&arrangePreserveBass, "preserve-bass", false, "accepted for forward compatibility; not consumed yet")
	f.StringVar(&arrangeConfigPath, "config", "", "YAML file with option defaults")
	rootCmd.AddCommand(arrangeCmd)
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange <input.mid> <output.mid>",
	Short: "Arranges a MIDI file for two hands",
	Long:  `Arranges a MIDI file for two hands, writing a two-track piano file.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cliOptions(cmd)
		if err != nil {
			return err
		}
		return arrangeFile(args[0], args[1], opts)
	},
}

// cliOptions resolves flags over an optional config file over CLI
// defaults.
func cliOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	opts.MaxRightHandNotes = cliDefaultMaxRight
	opts.MaxLeftHandNotes = cliDefaultMaxLeft

	if arrangeConfigPath != "" {
		fileOpts, err := config.ReadFile(arrangeConfigPath, opts)
		if err != nil {
			return opts, err
		}
		opts = *fileOpts
	}

	f := cmd.Flags()
	if f.Changed("split-point") {
		if arrangeSplitPoint < 0 || arrangeSplitPoint > 127 {
			return opts, fmt.Errorf("split-point must be a pitch between 0 and 127")
		}
		opts.SplitPoint = uint8(arrangeSplitPoint)
	}
	if f.Changed("max-right") {
		opts.MaxRightHandNotes = arrangeMaxRight
	}
	if f.Changed("max-left") {
		opts.MaxLeftHandNotes = arrangeMaxLeft
	}
	if f.Changed("dynamic-split-point") {
		opts.DynamicSplitPoint = arrangeDynamicSplit
	}
	if f.Changed("preserve-melody") {
		opts.PreserveMelody = arrangePreserveMelody
	}
	if f.Changed("preserve-bass") {
		opts.PreserveBass = arrangePreserveBass
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func arrangeFile(in string, out string, opts config.Options) error {
	if !isMidiPath(in) {
		return fmt.Errorf("%v is not a .mid/.midi file", in)
	}

	src, err := midi.ReadFile(in)
	if err != nil {
		return err
	}

	tracks := midi.Tracks(src)
	arr := arrange.Run(tracks, opts)

	res := emit.Render(src, arr)
	if err := res.WriteFile(out); err != nil {
		return fmt.Errorf("could not write %v: %v", out, err)
	}

	fmt.Printf("Arranged %v source tracks into %v right-hand and %v left-hand notes\n",
		len(tracks), len(arr.Right), len(arr.Left))
	return nil
}

func isMidiPath(path string) bool {
	return strings.HasSuffix(path, ".mid") || strings.HasSuffix(path, ".midi")
}

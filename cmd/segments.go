package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrato/internal/pkg/texttools"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Parse the input document and print the segment list",
	Long: `Dry-run inspection: split the input document with the configured
options and print each segment without synthesizing any audio.`,
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)

	flags := segmentsCmd.Flags()
	flags.StringP("text", "t", "", "path to input text file")
	flags.Int("min-length", 0, "minimum segment length in characters")

	_ = viper.BindPFlag("paths.input_file", flags.Lookup("text"))
	_ = viper.BindPFlag("text.min_segment_length", flags.Lookup("min-length"))
}

func runSegments(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	text, err := os.ReadFile(cfg.Paths.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", cfg.Paths.InputFile, err)
	}

	segmenter := texttools.NewSegmenter()
	segmenter.SetSplitByHeaders(cfg.Text.SplitByHeaders)
	segmenter.SetSplitByPunctuation(cfg.Text.SplitByPunctuation)
	segmenter.SetMinSegmentLength(cfg.Text.MinSegmentLength)

	if headers := segmenter.ExtractHeaders(string(text)); len(headers) > 0 {
		fmt.Println("Outline:")
		for _, h := range headers {
			fmt.Printf("  %s\n", h)
		}
		fmt.Println()
	}

	segments := segmenter.Parse(string(text))
	for i, seg := range segments {
		kind := "content"
		if seg.IsHeader {
			kind = "header"
		}
		fmt.Printf("[%04d] %-7s header=%q\n       %s\n", i, kind, seg.Header, seg.Text)
	}
	fmt.Printf("\n%d segments\n", len(segments))

	return nil
}

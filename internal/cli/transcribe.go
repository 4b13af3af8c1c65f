package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"scribe/internal/adapter/fs"
	"scribe/internal/adapter/llm"
	"scribe/internal/domain"
)

var transcribeOutput string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio>...",
	Short: "Transcribe audio files without summarizing",
	Long: `Transcribe each audio file into <name>-transcript.txt in the output
directory. Lines are headed "speaker: start --> end".

Examples:
  scribe transcribe call.mp3
  scribe transcribe interviews/*.wav -o transcripts/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeOutput, "output", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	paths, err := fs.NewWalker(nil, nil).Expand(args)
	if err != nil {
		return err
	}

	backend, err := llm.NewBackend(ctx, cfg)
	if err != nil {
		return err
	}
	if backend.Transcriber == nil {
		return llm.ErrNoTranscriber
	}
	tr := buildTranscriber(cfg, llm.NewRetryingTranscriber(backend.Transcriber, retryPolicy(cfg)).WithTimeout(cfg.Model.Timeout))

	outDir := cfg.Pipeline.OutputDir
	if transcribeOutput != "" {
		outDir = transcribeOutput
	}
	sink := fs.NewOutputDir(outDir)

	bar := newProgressBar(len(paths), "Transcribing")
	var failed int
	for _, path := range paths {
		doc, err := domain.NewDocument(path)
		if err == nil && doc.Kind != domain.KindAudio {
			err = fmt.Errorf("%w: %s is not audio", domain.ErrUnsupportedFormat, doc.ID)
		}
		if err != nil {
			failed++
			fmt.Printf("\nSkipping %s: %v\n", path, err)
			bar.Add(1)
			continue
		}

		lines, err := tr.Transcribe(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			fmt.Printf("\nFailed %s: %v\n", path, err)
			bar.Add(1)
			continue
		}
		out, err := sink.WriteTranscript(doc, lines)
		if err != nil {
			return err
		}
		bar.Add(1)
		fmt.Printf("\n  %s -> %s\n", doc.ID, out)
	}
	bar.Finish()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

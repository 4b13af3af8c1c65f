package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"scribe/internal/adapter/extractor"
	"scribe/internal/adapter/fs"
	"scribe/internal/port"
	"scribe/internal/usecase"
)

var (
	notesDocs         []string
	notesQuery        string
	notesOutput       string
	notesFile         string
	notesIntermediate bool
	notesExcludes     []string
)

var notesCmd = &cobra.Command{
	Use:   "notes [path...]",
	Short: "Summarize documents and merge them into one notes file",
	Long: `Summarize each document and merge the summaries into a single notes file.
Inputs may be files, directories or glob patterns, given as arguments or
with --doc. Documents that cannot be read are skipped and reported.

Examples:
  scribe notes --doc report.pdf --doc minutes.docx
  scribe notes "meetings/**/*.mp3" -q "what was decided about hiring"
  scribe notes docs/ --intermediate -o out/`,
	RunE: runNotes,
}

func init() {
	notesCmd.Flags().StringArrayVar(&notesDocs, "doc", nil, "document, directory or glob (repeatable)")
	notesCmd.Flags().StringVarP(&notesQuery, "query", "q", "", "question to focus the notes on")
	notesCmd.Flags().StringVarP(&notesOutput, "output", "o", "", "output directory (default from config)")
	notesCmd.Flags().StringVar(&notesFile, "notes-file", "", "notes file name (default from config)")
	notesCmd.Flags().BoolVar(&notesIntermediate, "intermediate", false, "also write each document's summary")
	notesCmd.Flags().StringSliceVar(&notesExcludes, "exclude", nil, "patterns to skip when walking directories")
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	patterns := append(append([]string{}, notesDocs...), args...)
	if len(patterns) == 0 {
		return fmt.Errorf("no documents given: pass paths or --doc")
	}
	var walker port.FileWalker = fs.NewWalker(nil, notesExcludes)
	paths, err := walker.Expand(patterns)
	if err != nil {
		return err
	}

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	outDir := cfg.Pipeline.OutputDir
	if notesOutput != "" {
		outDir = notesOutput
	}
	name := cfg.Pipeline.NotesFile
	if notesFile != "" {
		name = notesFile
	}

	notesUC := usecase.NewNotesUseCase(
		extractor.NewRegistry(),
		p.engine,
		p.planner,
		p.transcriber,
		fs.NewOutputDir(outDir),
		cfg.Pipeline.Concurrency,
	)

	fmt.Printf("Summarizing %d documents with %s...\n", len(paths), p.client.ModelName())
	bar := newProgressBar(len(paths), "Summarizing")
	start := time.Now()
	done := 0

	result, err := notesUC.Run(ctx, paths, usecase.NotesOptions{
		Query:        notesQuery,
		NotesFile:    name,
		Intermediate: notesIntermediate || cfg.Pipeline.Intermediate,
		OnDocument: func(string, error) {
			done++
			bar.Set(done)
			if done < len(paths) {
				rate := float64(done) / time.Since(start).Seconds()
				if rate > 0 {
					eta := time.Duration(float64(len(paths)-done)/rate) * time.Second
					bar.Describe(fmt.Sprintf("[cyan]Summarizing[reset] ETA: %s", formatDuration(eta)))
				}
			}
		},
	})
	bar.Finish()

	if result != nil {
		fmt.Println(renderNotesReport(result, time.Since(start)))
	}
	if err != nil {
		return fmt.Errorf("notes failed: %w", err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"scribe/internal/adapter/extractor"
	"scribe/internal/adapter/llm"
	"scribe/internal/adapter/prompt"
	"scribe/internal/domain"
	"scribe/internal/usecase"
)

var (
	chunkQuery string
	chunkFull  bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk <file>",
	Short: "Show how a document is split under the token budget",
	Long: `Extract a document and print its chunks with their token costs, without
calling the model. Oversized chunks (a single sentence or row over budget)
are marked.

Examples:
  scribe chunk report.pdf
  scribe chunk budget.xlsx --full`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkQuery, "query", "q", "", "query whose framing is charged to the budget")
	chunkCmd.Flags().BoolVar(&chunkFull, "full", false, "print full chunk text")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	doc, err := domain.NewDocument(args[0])
	if err != nil {
		return err
	}
	content, err := extractor.NewRegistry().Extract(cmd.Context(), doc)
	if errors.Is(err, domain.ErrEmptyInput) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no content to chunk\n", doc.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := content.(domain.AudioContent); ok {
		return fmt.Errorf("%s is audio; run 'scribe transcribe' first", doc.ID)
	}

	counter, text, table, err := buildChunkers(cfg)
	if err != nil {
		return err
	}
	// the mock backend is never called; the client only renders the system
	// prompt so its cost is charged exactly as in a real run
	client := llm.NewClient(llm.NewMockClient(0), prompt.NewStore(cfg.Pipeline.PromptsDir), retryPolicy(cfg), cfg.Model.ReservedSummaryBudget)
	engine := usecase.NewSummaryEngine(client, counter, text, table, budget(cfg))

	limit, err := engine.ChunkBudget(doc.ID, chunkQuery)
	if err != nil {
		return err
	}
	chunks, err := engine.Chunks(doc, content, chunkQuery)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s): %d chunks, budget %d tokens per chunk\n\n", doc.ID, doc.Kind, len(chunks), limit)
	for _, c := range chunks {
		flag := ""
		if c.Oversized {
			flag = failStyle.Render(" OVERSIZED")
		}
		fmt.Printf("--- chunk %d: %d tokens%s\n", c.Index, c.Tokens, flag)
		fmt.Println(preview(c.Text, chunkFull))
		fmt.Println()
	}
	return nil
}

func preview(text string, full bool) string {
	const max = 240
	r := []rune(text)
	if full || len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

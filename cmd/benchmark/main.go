package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"scribe/config"
	"scribe/internal/adapter/analyzer"
	"scribe/internal/adapter/chunker"
	"scribe/internal/adapter/extractor"
	"scribe/internal/adapter/fs"
	"scribe/internal/adapter/llm"
	"scribe/internal/adapter/prompt"
	"scribe/internal/domain"
	"scribe/internal/retry"
	"scribe/internal/usecase"
)

// Offline budget benchmark: runs the whole pipeline against the mock backend
// and reports how many chunks and model calls each input costs.
func main() {
	dir := flag.String("dir", ".", "directory holding scribe.yaml")
	words := flag.Int("words", 200, "words per mock summary")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: go run ./cmd/benchmark [-dir .] [-words 200] <path|glob>...")
		fmt.Println("\nReports, without calling a model:")
		fmt.Println("  1. Chunks and tokens per document under the configured budget")
		fmt.Println("  2. Merge chunks and merge calls for the batch")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	paths, err := fs.NewWalker(nil, nil).Expand(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding inputs: %v\n", err)
		os.Exit(1)
	}

	counter, err := analyzer.NewCounter(cfg.Model.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tokenizer: %v\n", err)
		os.Exit(1)
	}
	text, err := chunker.NewTextChunker(counter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sentence model: %v\n", err)
		os.Exit(1)
	}

	policy := retry.Default()
	policy.MaxAttempts = 1
	client := llm.NewClient(llm.NewMockClient(*words), prompt.NewStore(cfg.Pipeline.PromptsDir), policy, cfg.Model.ReservedSummaryBudget)
	budget := usecase.Budget{ContextLimit: cfg.Model.ContextLimit, ReservedSummaryBudget: cfg.Model.ReservedSummaryBudget}
	engine := usecase.NewSummaryEngine(client, counter, text, chunker.NewTableChunker(), budget)
	planner := usecase.NewMergePlanner(client, counter, budget)
	registry := extractor.NewRegistry()

	fmt.Println("SCRIBE BUDGET BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Context limit: %d  Reserved: %d  Encoding: %s\n\n",
		cfg.Model.ContextLimit, cfg.Model.ReservedSummaryBudget, cfg.Model.Encoding)

	ctx := context.Background()
	var summaries []domain.DocumentSummary
	totalChunks, totalTokens, oversized := 0, 0, 0
	start := time.Now()

	for _, path := range paths {
		doc, err := domain.NewDocument(path)
		if err != nil {
			fmt.Printf("  skip  %s: %v\n", path, err)
			continue
		}
		content, err := registry.Extract(ctx, doc)
		if err != nil {
			fmt.Printf("  skip  %s: %v\n", doc.ID, err)
			continue
		}
		if _, ok := content.(domain.AudioContent); ok {
			fmt.Printf("  skip  %s: audio needs a transcription backend\n", doc.ID)
			continue
		}

		chunks, err := engine.Chunks(doc, content, "")
		if err != nil {
			fmt.Printf("  skip  %s: %v\n", doc.ID, err)
			continue
		}
		tokens := 0
		for _, c := range chunks {
			tokens += c.Tokens
			if c.Oversized {
				oversized++
			}
		}
		totalChunks += len(chunks)
		totalTokens += tokens
		fmt.Printf("  %-40s %4d chunks %8d tokens\n", doc.ID, len(chunks), tokens)

		summary, err := engine.Summarize(ctx, doc, content, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Summarize error: %v\n", err)
			os.Exit(1)
		}
		summaries = append(summaries, summary)
	}

	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Documents: %d  Chunks: %d  Tokens: %d  Oversized: %d\n",
		len(summaries), totalChunks, totalTokens, oversized)

	if len(summaries) == 0 {
		os.Exit(1)
	}
	final, err := planner.Merge(ctx, summaries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Merge error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Merge chunks: %d  Merge calls: %d  Model calls total: %d\n",
		final.Chunks, final.Calls, totalChunks+final.Calls)
	fmt.Printf("Elapsed: %s\n", time.Since(start).Round(time.Millisecond))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the summary cache",
	Long: `The summary cache stores document summaries so unchanged inputs are not
summarized twice. Its backend is set by cache.backend (memory, bolt, redis).`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		sc, err := openCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if sc == nil {
			fmt.Println("Summary cache is disabled (cache.backend = none)")
			return nil
		}
		defer sc.Close()

		n, err := sc.Len(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		fmt.Printf("Backend:   %s\n", cfg.Cache.Backend)
		fmt.Printf("Summaries: %d\n", n)
		fmt.Printf("TTL:       %s\n", cfg.Cache.TTL)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		sc, err := openCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if sc == nil {
			fmt.Println("Summary cache is disabled (cache.backend = none)")
			return nil
		}
		defer sc.Close()

		if err := sc.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %s summary cache\n", cfg.Cache.Backend)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

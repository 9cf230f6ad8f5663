package main

import (
	"fmt"
	"os"

	"github.com/bbernstein/fgcboard/internal/store"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspects and maintains the station cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes entries not fetched today",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		evicted, err := a.Cache.CleanOldCache(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Evicted %d stale stations\n", evicted)
		return nil
	},
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict <station>",
	Short: "Removes one station's entry so the next lookup fetches again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		return a.Cache.Evict(cmd.Context(), args[0])
	},
}

var cacheKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Lists the keys in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}

		keys, err := a.Store.Keys(cmd.Context())
		if err != nil {
			return err
		}

		tbl := table.New("Key", "Bytes").WithWriter(os.Stdout)
		for _, key := range keys {
			value, _, err := a.Store.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			tbl.AddRow(key, len(value))
		}
		tbl.Print()

		if lru, ok := a.Store.(*store.LRU); ok {
			stats := lru.GetCacheStats()
			fmt.Printf("\nLRU hits: %d, misses: %d\n", stats["lru_hits"], stats["lru_misses"])
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheEvictCmd)
	cacheCmd.AddCommand(cacheKeysCmd)
}

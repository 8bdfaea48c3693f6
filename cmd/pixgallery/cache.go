package main

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-pixgallery"
	"github.com/anatolykoptev/go-pixgallery/kvstore"
	"github.com/spf13/cobra"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the image analysis cache",
	}
	cmd.AddCommand(newCacheListCmd(opts), newCacheGetCmd(opts))
	return cmd
}

func newCacheListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List analyzed image URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := kvstore.Open(opts.cfg.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := store.Keys(cmd.Context(), pixgallery.CacheKeyPrefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(k, pixgallery.CacheKeyPrefix))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d entries in %s\n", len(keys), opts.cfg.CachePath)
			return nil
		},
	}
}

func newCacheGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <image-url>",
		Short: "Print the cached tags for an image URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := kvstore.Open(opts.cfg.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()

			tags, ok := pixgallery.NewTagCache(store).Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("%s has not been analyzed", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), tags)
		},
	}
}

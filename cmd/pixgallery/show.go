package main

import (
	"fmt"

	"github.com/anatolykoptev/go-pixgallery"
	"github.com/anatolykoptev/go-pixgallery/kvstore"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <image-url>",
		Short: "Show attribution metadata and cached tags for one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			w := cmd.OutOrStdout()

			meta, err := pixgallery.FetchPhotoMetadata(cmd.Context(), nil, url)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", url, err)
			}

			fmt.Fprintf(w, "url:         %s\n", url)
			fmt.Fprintf(w, "attribution: %s\n", orDash(meta.Attribution()))
			fmt.Fprintf(w, "rights:      %s\n", orDash(meta.Rights()))
			fmt.Fprintf(w, "camera:      %s\n", orDash(meta.Camera()))

			store, err := kvstore.Open(opts.cfg.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()

			if tags, ok := pixgallery.NewTagCache(store).Get(cmd.Context(), url); ok {
				fmt.Fprintf(w, "tags:        %v\n", tags)
			} else {
				fmt.Fprintln(w, "tags:        (not analyzed)")
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go-pixgallery"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		pages  int
		filter string
		dedup  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search photos and print them with their tags",
		Example: `  # First page of the default query
  pixgallery search

  # Three pages of beach photos, only those tagged "person"
  pixgallery search beach --pages 3 --filter person

  # Use Pixabay's own tags instead of detection
  pixgallery search --strategy native red fox`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireAPIKey(); err != nil {
				return err
			}

			enricher, cleanup, err := opts.enricher()
			if err != nil {
				return err
			}
			defer cleanup()

			ctrl := pixgallery.NewController(pixgallery.NewClient(opts.libraryConfig()), enricher, opts.libraryConfig())
			ctx := cmd.Context()

			if err := ctrl.Search(ctx, strings.Join(args, " ")); err != nil {
				return fmt.Errorf("search: %w", err)
			}
			for i := 1; i < pages && ctrl.State().HasMore; i++ {
				if err := ctrl.LoadMore(ctx); err != nil {
					// Keep what was loaded; the failure is in the state too.
					slog.Warn("pixgallery: load more failed", "page", i+1, "error", err.Error())
					break
				}
			}
			if filter != "" {
				if err := ctrl.FilterByTag(ctx, filter); err != nil && !errors.Is(err, pixgallery.ErrLoadInFlight) {
					return err
				}
			}

			state := ctrl.State()
			images := state.Images
			if dedup {
				images = pixgallery.CollapseDuplicates(ctx, nil, images)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), images)
			}
			printImages(cmd.OutOrStdout(), state, images)
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of pages to load")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "keep only photos whose derived tags contain this text")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "hide photos that look identical to an earlier one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	return cmd
}

func printImages(w io.Writer, state pixgallery.GalleryState, images []pixgallery.EnrichedImageRecord) {
	query := state.Query
	if query == "" {
		query = "(default)"
	}
	fmt.Fprintf(w, "query %s, page %d, %d photos\n\n", query, state.Page, len(images))

	for _, img := range images {
		fmt.Fprintf(w, "#%d  Photo by: %s\n", img.ID, img.User)
		if len(img.DerivedTags) > 0 {
			fmt.Fprintf(w, "    tags: %s\n", strings.Join(img.DerivedTags, ", "))
		}
		fmt.Fprintf(w, "    %s\n", img.PreviewURL)
	}

	if !state.HasMore {
		fmt.Fprintln(w, "\n(no more pages)")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

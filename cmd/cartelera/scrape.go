package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"cartelera/movie"
	"cartelera/pkg/config"
	"cartelera/vandyck"
)

func newScrapeCmd() *cobra.Command {
	var simple, asTable bool

	cmd := &cobra.Command{
		Use:   "scrape [--simple | --table]",
		Short: "Fetches the listings once and prints them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			uc := movie.NewUsecase(vandyck.NewClient(cfg.ListingURL, vandyck.WithTimeout(cfg.FetchTimeout)))
			out := cmd.OutOrStdout()

			if simple {
				summaries, err := uc.Summaries(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(out, summaries)
			}

			movies, err := uc.Listings(cmd.Context())
			if err != nil {
				return err
			}
			if asTable {
				writeTable(out, movies)
				return nil
			}
			return writeJSON(out, movies)
		},
	}
	cmd.Flags().BoolVar(&simple, "simple", false, "Print one condensed string per movie.")
	cmd.Flags().BoolVar(&asTable, "table", false, "Print the movies as a table.")
	cmd.MarkFlagsMutuallyExclusive("simple", "table")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeTable(w io.Writer, movies []movie.Movie) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Title", "Length", "Release", "Director", "Genre", "Showtimes"})
	for _, m := range movies {
		t.AppendRow(table.Row{
			m.Title,
			m.Length,
			m.ReleaseDate,
			m.Director,
			strings.Join(m.Genre, ", "),
			strings.Join(m.AvailableHours, " "),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

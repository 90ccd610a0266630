package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/swiftype"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		options string
		page    int
		size    int
	)
	cmd := &cobra.Command{
		Use:   "search ENGINE QUERY",
		Short: "Run a full-text search",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
			opts, err := searchOptions(options, page, size)
			if err != nil {
				return nil, err
			}
			return c.Search(ctx, args[0], args[1], opts)
		}),
	}
	cmd.Flags().StringVar(&options, "options", "", `extra search parameters as a JSON object, e.g. '{"filters":{...}}'`)
	cmd.Flags().IntVar(&page, "page", 0, "page number (page.current)")
	cmd.Flags().IntVar(&size, "size", 0, "results per page (page.size)")
	return cmd
}

// searchOptions parses --options and applies --page/--size on top of it.
func searchOptions(raw string, page, size int) (swiftype.SearchOptions, error) {
	opts := swiftype.SearchOptions{}
	if raw != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if err := dec.Decode(&opts); err != nil {
			return nil, fmt.Errorf("parse --options: %w", err)
		}
		if opts == nil {
			opts = swiftype.SearchOptions{}
		}
	}
	if page <= 0 && size <= 0 {
		return opts, nil
	}

	p, _ := opts["page"].(map[string]any)
	if p == nil {
		p = map[string]any{}
	}
	if page > 0 {
		p["current"] = page
	}
	if size > 0 {
		p["size"] = size
	}
	opts["page"] = p
	return opts, nil
}

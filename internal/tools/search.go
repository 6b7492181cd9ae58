package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

type searchArgs struct {
	Query string `json:"query" description:"The search query" validate:"required"`
}

func registerSearchTool(r *Registry, d Deps) {
	r.register(Tool{
		Name:        "search_web",
		Description: "Search the web for current information, recipes, prices, or any topic",
		Schema:      schemaFor(searchArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in searchArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Search failed: %v. Please try a different search or continue without web information.", err)
			}
			if d.Searcher == nil {
				return fmt.Sprintf("🔍 Web search not available. Query was: '%s'. Please continue without web information.", in.Query)
			}
			results, err := d.Searcher.Search(ctx, in.Query)
			if err != nil {
				return Failf("Search failed: %v. Please try a different search or continue without web information.", err)
			}
			return fmt.Sprintf("🔍 Search results for '%s':\n%s", in.Query, results)
		},
	})
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Namespace is the tool namespace operations are registered under.
const Namespace = "cyberchef"

// DefaultSearchLimit caps search results when the caller passes no limit.
const DefaultSearchLimit = 10

// Index is a keyword search index over a catalog.
//
// Each operation is registered as a tool named by its normalized key, so a
// search hit always resolves back to exactly the entry Resolve would pick.
type Index struct {
	catalog *Catalog
	idx     index.Index
}

// NewIndex registers every operation of c in a BM25 in-memory index.
// Operations whose normalized name collides with an earlier one are skipped.
func NewIndex(c *Catalog) (*Index, error) {
	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})

	seen := make(map[string]struct{}, c.Len())
	for _, e := range c.entries {
		key := Normalize(e.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := idx.RegisterTool(toolFor(key, e), model.NewLocalBackend(key)); err != nil {
			return nil, fmt.Errorf("index operation %q: %w", e.Name, err)
		}
	}
	return &Index{catalog: c, idx: idx}, nil
}

// Search returns catalog entries matching query, best match first.
func (x *Index) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	summaries, err := x.idx.Search(query, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(summaries))
	for _, s := range summaries {
		if e, ok := x.catalog.Resolve(s.Name); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func toolFor(key string, e Entry) model.Tool {
	var tags []string
	for _, word := range strings.Fields(e.Name + " " + e.Module) {
		if tag := Normalize(word); tag != "" {
			tags = append(tags, tag)
		}
	}
	return model.Tool{
		Tool: mcp.Tool{
			Name:        key,
			Title:       e.Name,
			Description: e.Name + ". " + e.Description,
			InputSchema: map[string]any{"type": "object"},
		},
		Namespace: Namespace,
		Tags:      model.NormalizeTags(tags),
	}
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"nthora.app/server/internal/model"
)

const collectionName = "questions"

// Document is the indexed projection of a question.
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Topic   string   `json:"topic"`
	Demo    bool     `json:"demo"`
	Created int64    `json:"created"`
}

// Client indexes questions and serves the explore view. When Typesense is
// unconfigured callers fall back to the store's ILIKE accessor.
type Client interface {
	EnsureCollection(ctx context.Context) error
	Index(ctx context.Context, q *model.Question) error
	Search(ctx context.Context, query string, limit int) ([]int64, error)
}

type Config struct {
	URL    string
	APIKey string
}

func (c Config) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

type typesenseClient struct {
	client *typesense.Client
}

func New(cfg Config) (Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("typesense is not configured")
	}

	return &typesenseClient{
		client: typesense.NewClient(
			typesense.WithServer(cfg.URL),
			typesense.WithAPIKey(cfg.APIKey),
		),
	}, nil
}

func (c *typesenseClient) EnsureCollection(ctx context.Context) error {
	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "tags", Type: "string[]", Facet: pointer.True()},
			{Name: "topic", Type: "string", Facet: pointer.True()},
			{Name: "demo", Type: "bool", Optional: pointer.True()},
			{Name: "created", Type: "int64", Sort: pointer.True()},
		},
		DefaultSortingField: pointer.String("created"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		// Already-exists is fine; the schema is stable.
		slog.DebugContext(ctx, "create collection result", "error", err)
	}
	return nil
}

func (c *typesenseClient) Index(ctx context.Context, q *model.Question) error {
	tags := append(append([]string{}, q.PrimaryTags...), q.SecondaryTags...)

	doc := Document{
		ID:      strconv.FormatInt(q.ID, 10),
		Title:   q.Title,
		Content: q.Content,
		Tags:    tags,
		Topic:   q.Topic,
		Demo:    q.IsDemo,
		Created: q.CreatedAt.Unix(),
	}

	if _, err := c.client.Collection(collectionName).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("indexing question %d: %w", q.ID, err)
	}
	return nil
}

func (c *typesenseClient) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 20
	}

	result, err := c.client.Collection(collectionName).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,content,tags,topic"),
		PerPage: pointer.Int(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("searching questions: %w", err)
	}

	var ids []int64
	if result.Hits == nil {
		return ids, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		raw, ok := (*hit.Document)["id"].(string)
		if !ok {
			continue
		}
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

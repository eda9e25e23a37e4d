package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
)

var ErrNotFound = errors.New("member not found")

const (
	memberCollection     = "members"
	connectionCollection = "connections"
	graphName            = "network"
)

// Client is the connection-graph contract used by the activity and
// network services. Degrees are graph distances in the social graph.
type Client interface {
	// Setup operations
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context) error
	EnsureGraph(ctx context.Context) error

	// Write operations
	UpsertMember(ctx context.Context, userID int64) error
	Connect(ctx context.Context, conn Connection) error

	// Read operations
	NetworkUserIDs(ctx context.Context, userID int64, maxDegree int) ([]Member, error)

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	arangoClient := arangodb.NewClient(conn)

	c := &client{
		conn:         conn,
		arangoClient: arangoClient,
		cfg:          cfg,
	}

	return c, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	if err := c.ensureCollection(ctx, memberCollection, false); err != nil {
		return err
	}
	return c.ensureCollection(ctx, connectionCollection, true)
}

func (c *client) ensureCollection(ctx context.Context, name string, isEdge bool) error {
	exists, err := c.db.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", name, err)
	}

	if !exists {
		props := &arangodb.CreateCollectionPropertiesV2{}
		if isEdge {
			colType := arangodb.CollectionTypeEdge
			props.Type = &colType
		} else {
			colType := arangodb.CollectionTypeDocument
			props.Type = &colType
		}

		_, err = c.db.CreateCollectionV2(ctx, name, props)
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created",
			"collection", name,
			"is_edge", isEdge)
	}

	return nil
}

func (c *client) EnsureGraph(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	exists, err := c.db.GraphExists(ctx, graphName)
	if err != nil {
		return fmt.Errorf("check graph exists: %w", err)
	}

	if exists {
		return nil
	}

	graphDef := &arangodb.GraphDefinition{
		Name: graphName,
		EdgeDefinitions: []arangodb.EdgeDefinition{
			{Collection: connectionCollection, From: []string{memberCollection}, To: []string{memberCollection}},
		},
	}

	_, err = c.db.CreateGraph(ctx, graphName, graphDef, nil)
	if err != nil {
		return fmt.Errorf("create graph: %w", err)
	}

	slog.InfoContext(ctx, "arangodb graph created", "graph", graphName)
	return nil
}

// UpsertMember creates the user vertex if it does not exist yet.
func (c *client) UpsertMember(ctx context.Context, userID int64) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, user_id: @user_id }
		UPDATE {} IN members
	`

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"key":     memberKey(userID),
			"user_id": userID,
		},
	})
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return cursor.Close()
}

// Connect records an edge between two users. Edges are stored once and
// traversed in ANY direction, so (a,b) and (b,a) are the same connection.
func (c *client) Connect(ctx context.Context, conn Connection) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	from, to := conn.FromUserID, conn.ToUserID
	if from > to {
		from, to = to, from
	}

	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, _from: @from, _to: @to, source: @source }
		UPDATE {} IN connections
	`

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"key":    fmt.Sprintf("%d-%d", from, to),
			"from":   memberCollection + "/" + memberKey(from),
			"to":     memberCollection + "/" + memberKey(to),
			"source": conn.Source,
		},
	})
	if err != nil {
		return fmt.Errorf("connect members: %w", err)
	}
	return cursor.Close()
}

// NetworkUserIDs returns every user reachable within maxDegree hops of the
// given user, annotated with the minimal degree. The start user is included
// with degree 0. BFS with global vertex uniqueness guarantees minimal degrees.
func (c *client) NetworkUserIDs(ctx context.Context, userID int64, maxDegree int) ([]Member, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if maxDegree <= 0 {
		maxDegree = 1
	}

	start := time.Now()

	query := `
		FOR v, e, p IN 1..@depth ANY @start GRAPH "network"
			OPTIONS { uniqueVertices: "global", order: "bfs" }
			RETURN { user_id: v.user_id, degree: LENGTH(p.edges) }
	`

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"start": memberCollection + "/" + memberKey(userID),
			"depth": maxDegree,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("network traversal: %w", err)
	}
	defer cursor.Close()

	results := []Member{{UserID: userID, Degree: 0}}
	for cursor.HasMore() {
		var doc struct {
			UserID int64 `json:"user_id"`
			Degree int   `json:"degree"`
		}
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		if doc.UserID == 0 {
			continue
		}
		results = append(results, Member{UserID: doc.UserID, Degree: doc.Degree})
	}

	slog.DebugContext(ctx, "network traversal completed",
		"user_id", userID,
		"max_degree", maxDegree,
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds())

	return results, nil
}

func memberKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

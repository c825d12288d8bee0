package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// an embedding whose dimension does not match the collection's
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// a collection name unsafe to splice into SQL identifiers
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Client stores and searches embedded document chunks in a single
// pgvector-backed collection table.
type Client struct {
	pool       *pgxpool.Pool
	collection string
	dimension  int
}

func NewClient(ctx context.Context, connString, collection string, dimension int) (*Client, error) {
	if !validCollectionName(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{
		pool:       pool,
		collection: collection,
		dimension:  dimension,
	}

	if err := client.ensureCollection(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return client, nil
}

func (c *Client) Close() {
	c.pool.Close()
}

// returns the fixed embedding dimension of the collection
func (c *Client) Dimension() int {
	return c.dimension
}

// returns the collection (table) name
func (c *Client) Collection() string {
	return c.collection
}

// creates the vector extension, the collection table and its index
// when they do not exist yet
func (c *Client) ensureCollection(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, createExtensionQuery); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	if _, err := c.pool.Exec(ctx, fmt.Sprintf(createCollectionQuery, c.collection, c.dimension)); err != nil {
		return fmt.Errorf("failed to create collection %q: %w", c.collection, err)
	}

	if _, err := c.pool.Exec(ctx, fmt.Sprintf(createIndexQuery, c.collection, c.collection)); err != nil {
		return fmt.Errorf("failed to create index for %q: %w", c.collection, err)
	}

	return nil
}

// drops and recreates the collection, discarding every stored chunk
func (c *Client) Reset(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, fmt.Sprintf(dropCollectionQuery, c.collection)); err != nil {
		return fmt.Errorf("failed to drop collection %q: %w", c.collection, err)
	}

	return c.ensureCollection(ctx)
}

// table names are spliced into SQL, so only allow a conservative
// identifier shape
func validCollectionName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}

	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// Package graph implements the Graph Client (C1): parameterized Cypher
// execution plus native vector-index and fulltext-index search, against a
// Bolt-protocol Neo4j database. Modeled on the teacher's neo4j.Driver wiring
// in internal/handler/system.go, generalized from a health-check ping into
// the system's primary datastore access.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Client wraps a neo4j.DriverWithContext, shared process-wide per spec §5's
// shared-resource policy: one connection pool, sessions opened per operation.
type Client struct {
	driver neo4j.DriverWithContext
}

// New opens (but does not yet verify) a driver against uri with basic auth.
func New(uri, username, password string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("graph: failed to create driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// VerifyConnectivity is called once at startup; an unreachable database here
// is a startup fatal (spec §6's exit-code contract).
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Close releases the underlying connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Execute runs query in its own session/transaction and returns rows as
// column-name-to-value mappings, converting Neo4j's node/relationship
// property bags into plain maps the rest of the pipeline can serialize.
func (c *Client) Execute(ctx context.Context, query string, params map[string]interface{}) ([]types.Row, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]types.Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, recordToRow(rec))
		}
		return rows, nil
	})
	if err != nil {
		logger.Errorf(ctx, "graph: execute failed: %v", err)
		return nil, fmt.Errorf("graph: execute: %w", err)
	}
	return result.([]types.Row), nil
}

// VectorSearch runs db.index.vector.queryNodes against indexName and projects
// (url, title, abstract, year, citedByCount, doi, score) — the superset of
// columns the two retrieval modes need (spec §4.9). Failure here is never
// fatal: an offline or still-warming index yields an empty result set.
func (c *Client) VectorSearch(ctx context.Context, indexName string, k int, embedding []float32) ([]types.Row, error) {
	query := `
CALL db.index.vector.queryNodes($indexName, $k, $embedding)
YIELD node, score
RETURN node.openalex_url AS work_url,
       node.title AS title,
       node.abstract AS abstract,
       node.publication_year AS year,
       node.cited_by_count AS cited_by_count,
       node.doi AS doi,
       score AS score`

	rows, err := c.Execute(ctx, query, map[string]interface{}{
		"indexName": indexName,
		"k":         k,
		"embedding": embedding,
	})
	if err != nil {
		logger.Warnf(ctx, "graph: vector search unavailable, returning empty hits: %v", err)
		return []types.Row{}, nil
	}
	return rows, nil
}

// CohortVectorSearch runs the same vector-index query as VectorSearch but
// joins each hit back to its in-house author, mirroring the original's
// semantic_search_uofa join (AuthorProfile published-by, optionally linked to
// a Person carrying a stable user_id/ccid): a hit with no qualifying author
// is dropped rather than returned (spec §4.9's cohort mode).
func (c *Client) CohortVectorSearch(ctx context.Context, indexName string, k int, embedding []float32) ([]types.Row, error) {
	query := `
CALL db.index.vector.queryNodes($indexName, $k, $embedding)
YIELD node, score
MATCH (node)<-[:PUBLISHED]-(author:Researcher)
WHERE author.user_id IS NOT NULL OR author.ccid IS NOT NULL
WITH node, score
RETURN node.openalex_url AS work_url,
       node.title AS title,
       node.abstract AS abstract,
       node.publication_year AS year,
       node.cited_by_count AS cited_by_count,
       node.doi AS doi,
       score AS score
ORDER BY score DESC
LIMIT $k`

	rows, err := c.Execute(ctx, query, map[string]interface{}{
		"indexName": indexName,
		"k":         k,
		"embedding": embedding,
	})
	if err != nil {
		logger.Warnf(ctx, "graph: cohort vector search unavailable, returning empty hits: %v", err)
		return []types.Row{}, nil
	}
	return rows, nil
}

// FulltextSearch runs db.index.fulltext.queryNodes against indexName with a
// pre-built termExpression (e.g. a fuzziness-suffixed name query) and
// projects researcher identity columns plus score.
func (c *Client) FulltextSearch(ctx context.Context, indexName string, termExpression string) ([]types.Row, error) {
	query := `
CALL db.index.fulltext.queryNodes($indexName, $term)
YIELD node, score
WHERE node.user_id IS NOT NULL OR node.ccid IS NOT NULL
RETURN node.user_id AS user_id,
       node.ccid AS ccid,
       node.name AS name,
       node.normalized_name AS normalized_name,
       score AS score`

	return c.Execute(ctx, query, map[string]interface{}{
		"indexName": indexName,
		"term":      termExpression,
	})
}

func recordToRow(rec *neo4j.Record) types.Row {
	row := make(types.Row, len(rec.Keys))
	for i, key := range rec.Keys {
		row[key] = convertValue(rec.Values[i])
	}
	return row
}

// convertValue flattens Neo4j driver types (nodes, relationships, lists) into
// plain Go values so the rest of the pipeline never imports the driver.
func convertValue(v interface{}) interface{} {
	switch val := v.(type) {
	case neo4j.Node:
		return val.Props
	case neo4j.Relationship:
		return val.Props
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = convertValue(item)
		}
		return out
	default:
		return val
	}
}

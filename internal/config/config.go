// Package config loads process configuration from environment variables via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI               string
	Username          string
	Password          string
	VectorIndexName   string
	FulltextIndexName string
}

// LLMConfig holds the LLM provider connection settings.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
}

// SessionConfig holds conversation-history cookie settings.
type SessionConfig struct {
	CookieSecret    string
	MaxHistoryTurns int
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr         string
	DebugLogPath string
}

// RetrievalConfig holds semantic-retrieval tuning parameters.
type RetrievalConfig struct {
	CohortTopK      int
	TopicTopK       int
	MinRelevance    float64
	CandidateLimit  int
}

// Config is the fully-resolved process configuration.
type Config struct {
	Neo4j     Neo4jConfig
	LLM       LLMConfig
	Session   SessionConfig
	Server    ServerConfig
	Retrieval RetrievalConfig
}

// Load reads configuration from environment variables, applying the documented
// defaults for anything optional. Required settings missing at startup are a
// fatal error for the caller (cmd/server) to surface as a non-zero exit code.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_VECTOR_INDEX", "publication_embeddings")
	v.SetDefault("NEO4J_FULLTEXT_INDEX", "researcher_names")
	v.SetDefault("LLM_CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_EMBEDDING_MODEL", "text-embedding-3-small")
	v.SetDefault("SESSION_MAX_HISTORY_TURNS", 10)
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("DEBUG_LOG_PATH", "debug.log")
	v.SetDefault("RETRIEVAL_COHORT_TOPK", 20)
	v.SetDefault("RETRIEVAL_TOPIC_TOPK", 200)
	v.SetDefault("RETRIEVAL_MIN_RELEVANCE", 0.7)
	v.SetDefault("RESOLVER_CANDIDATE_LIMIT", 5)

	cfg := &Config{
		Neo4j: Neo4jConfig{
			URI:               v.GetString("NEO4J_URI"),
			Username:          v.GetString("NEO4J_USER"),
			Password:          v.GetString("NEO4J_PASSWORD"),
			VectorIndexName:   v.GetString("NEO4J_VECTOR_INDEX"),
			FulltextIndexName: v.GetString("NEO4J_FULLTEXT_INDEX"),
		},
		LLM: LLMConfig{
			APIKey:         v.GetString("LLM_API_KEY"),
			BaseURL:        v.GetString("LLM_BASE_URL"),
			ChatModel:      v.GetString("LLM_CHAT_MODEL"),
			EmbeddingModel: v.GetString("LLM_EMBEDDING_MODEL"),
		},
		Session: SessionConfig{
			CookieSecret:    v.GetString("SESSION_SECRET"),
			MaxHistoryTurns: v.GetInt("SESSION_MAX_HISTORY_TURNS"),
		},
		Server: ServerConfig{
			Addr:         v.GetString("SERVER_ADDR"),
			DebugLogPath: v.GetString("DEBUG_LOG_PATH"),
		},
		Retrieval: RetrievalConfig{
			CohortTopK:     v.GetInt("RETRIEVAL_COHORT_TOPK"),
			TopicTopK:      v.GetInt("RETRIEVAL_TOPIC_TOPK"),
			MinRelevance:   v.GetFloat64("RETRIEVAL_MIN_RELEVANCE"),
			CandidateLimit: v.GetInt("RESOLVER_CANDIDATE_LIMIT"),
		},
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("config: LLM_API_KEY is required")
	}
	if cfg.Session.CookieSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET is required")
	}
	if len(cfg.Session.CookieSecret) < 16 {
		return nil, fmt.Errorf("config: SESSION_SECRET must be at least 16 bytes")
	}

	return cfg, nil
}

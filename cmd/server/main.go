// Command server wires configuration, the graph and LLM clients, the core
// pipeline components, and the HTTP surface, then serves until an interrupt
// or termination signal triggers a graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ualberta-rcg/research-qa/internal/config"
	"github.com/ualberta-rcg/research-qa/internal/graph"
	"github.com/ualberta-rcg/research-qa/internal/handler"
	"github.com/ualberta-rcg/research-qa/internal/llmclient"
	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/orchestrator"
	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/querygen"
	"github.com/ualberta-rcg/research-qa/internal/resolver"
	"github.com/ualberta-rcg/research-qa/internal/retriever"
	"github.com/ualberta-rcg/research-qa/internal/session"
	"github.com/ualberta-rcg/research-qa/internal/synthesizer"
)

func main() {
	ctx := logger.CloneContext(context.Background())

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "main: loading config: %v", err)
		os.Exit(1)
	}

	registry, err := prompts.NewRegistry()
	if err != nil {
		logger.Errorf(ctx, "main: building prompt registry: %v", err)
		os.Exit(1)
	}

	graphClient, err := graph.New(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
	if err != nil {
		logger.Errorf(ctx, "main: constructing graph client: %v", err)
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = graphClient.VerifyConnectivity(connectCtx)
	cancel()
	if err != nil {
		logger.Errorf(ctx, "main: graph database unreachable: %v", err)
		os.Exit(1)
	}
	defer graphClient.Close(context.Background())

	llmClient := llmclient.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.ChatModel, cfg.LLM.EmbeddingModel)

	res := resolver.New(graphClient, cfg.Neo4j.FulltextIndexName, cfg.Retrieval.CandidateLimit)
	gen := querygen.New(llmClient, registry)
	ret := retriever.New(graphClient, cfg.Neo4j.VectorIndexName, cfg.Retrieval.TopicTopK, cfg.Retrieval.CohortTopK, cfg.Retrieval.MinRelevance)
	synth := synthesizer.New(llmClient, registry)

	orch := orchestrator.New(graphClient, llmClient, registry, res, gen, ret, synth, orchestrator.DefaultTimeouts())

	sessions := session.NewStore(cfg.Session.CookieSecret)
	queryHandler := handler.NewQueryHandler(orch, sessions, cfg.Server.DebugLogPath)

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(queryHandler)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Infof(ctx, "main: http server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(ctx, "main: http server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof(ctx, "main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "main: http server shutdown error: %v", err)
	}
	logger.Infof(shutdownCtx, "main: shutdown complete")
}

func setupRouter(q *handler.QueryHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestID())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))

	router.GET("/", handler.Home)

	api := router.Group("/api")
	{
		api.POST("/query", q.Query)
		api.POST("/log-debug", q.LogDebug)
		api.GET("/debug-log", q.DebugLog)
	}

	return router
}

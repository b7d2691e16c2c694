// Package handler implements the thin gin HTTP surface described in spec §6:
// it only validates input, threads the session cookie, and calls the
// orchestrator — no domain logic lives here.
package handler

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/orchestrator"
	"github.com/ualberta-rcg/research-qa/internal/session"
	"github.com/ualberta-rcg/research-qa/internal/utils"
)

// QueryHandler serves /api/query, /api/log-debug, and /api/debug-log.
type QueryHandler struct {
	orch        *orchestrator.Orchestrator
	sessions    *session.Store
	debugLogMu  sync.Mutex
	debugLogPath string
}

// NewQueryHandler constructs a QueryHandler writing debug records to debugLogPath.
func NewQueryHandler(orch *orchestrator.Orchestrator, sessions *session.Store, debugLogPath string) *QueryHandler {
	return &QueryHandler{orch: orch, sessions: sessions, debugLogPath: debugLogPath}
}

// queryRequest is the POST /api/query body (spec §6).
type queryRequest struct {
	Question       string `json:"question"`
	SelectedUserID string `json:"selected_user_id"`
}

// Query handles POST /api/query.
func (h *QueryHandler) Query(c *gin.Context) {
	ctx := logger.CloneContext(c.Request.Context())

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	cookie, _ := c.Cookie(session.CookieName)
	history := h.sessions.Decode(cookie)

	resp, err := h.orch.Handle(ctx, orchestrator.Request{
		Question:       req.Question,
		SelectedUserID: req.SelectedUserID,
		History:        history,
	})
	if err != nil {
		logger.Errorf(ctx, "handler: uncaught orchestrator failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if signed, err := h.sessions.Encode(resp.History); err != nil {
		logger.Warnf(ctx, "handler: failed to sign session cookie: %v", err)
	} else {
		c.SetCookie(session.CookieName, signed, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	}

	c.JSON(http.StatusOK, resp)
}

// debugRecord is the POST /api/log-debug body: a free-form structured record
// appended verbatim as one line (spec §6).
type debugRecord struct {
	Label string      `json:"label"`
	Data  interface{} `json:"data"`
}

// LogDebug handles POST /api/log-debug.
func (h *QueryHandler) LogDebug(c *gin.Context) {
	ctx := logger.CloneContext(c.Request.Context())

	var rec debugRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed debug record"})
		return
	}

	h.debugLogMu.Lock()
	defer h.debugLogMu.Unlock()

	f, err := os.OpenFile(h.debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Errorf(ctx, "handler: opening debug log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open debug log"})
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%v\n", time.Now().UTC().Format(time.RFC3339), utils.SanitizeForLog(rec.Label), rec.Data)
	if _, err := f.WriteString(line); err != nil {
		logger.Errorf(ctx, "handler: writing debug log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not write debug log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DebugLog handles GET /api/debug-log, returning the log file verbatim.
func (h *QueryHandler) DebugLog(c *gin.Context) {
	h.debugLogMu.Lock()
	defer h.debugLogMu.Unlock()

	f, err := os.Open(h.debugLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.String(http.StatusOK, "")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read debug log"})
		return
	}
	defer f.Close()

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	writer := bufio.NewWriter(c.Writer)
	defer writer.Flush()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		writer.WriteString(scanner.Text())
		writer.WriteByte('\n')
	}
}

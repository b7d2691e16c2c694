package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const placeholderPage = `<!DOCTYPE html>
<html>
<head><title>Research Graph Q&A</title></head>
<body>
<p>This instance exposes POST /api/query, POST /api/log-debug, and GET /api/debug-log.
Rendering a chat UI is out of scope for this service.</p>
</body>
</html>`

// Home handles GET / with a minimal placeholder document; UI rendering is
// explicitly out of scope (spec §1 Non-goals).
func Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderPage))
}

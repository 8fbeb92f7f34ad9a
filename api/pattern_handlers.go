package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// PatternHandler serves /api/patterns/*.
type PatternHandler struct {
	store db.PatternRepository
	log   *utils.Logger
}

func NewPatternHandler(store db.PatternRepository, log *utils.Logger) *PatternHandler {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &PatternHandler{store: store, log: log}
}

// Upload POST /api/patterns/upload - 上传(或合并)一个模式
func (h *PatternHandler) Upload(c *gin.Context) {
	var req models.PatternUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidatePattern(req.Pattern); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Pattern.Source == "" {
		req.Pattern.Source = "manual-upload"
	}

	saved, err := h.store.Save(c.Request.Context(), *req.Pattern)
	if err != nil {
		h.log.Error("pattern upload failed", "intent", req.Pattern.Intent, "error", err)
		respondError(c, http.StatusInternalServerError, "failed to save pattern")
		return
	}
	if !saved {
		// rejection is a policy outcome, not a transport error
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Pattern rejected"})
		return
	}

	h.log.Info("pattern uploaded", "intent", req.Pattern.Intent)
	respondOK(c, gin.H{"message": "Pattern uploaded successfully"})
}

// Search GET /api/patterns/search?q= - at most one match
func (h *PatternHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondError(c, http.StatusBadRequest, "Query required")
		return
	}

	matches := []models.Pattern{}
	if hit, ok := h.store.Search(c.Request.Context(), q); ok {
		matches = append(matches, *hit)
	}
	respondOK(c, gin.H{"matches": matches})
}

// Stats GET /api/patterns/stats
func (h *PatternHandler) Stats(c *gin.Context) {
	respondOK(c, gin.H{"stats": h.store.Stats(c.Request.Context())})
}

// Sync GET /api/patterns/sync - every pattern; since is accepted but not applied
func (h *PatternHandler) Sync(c *gin.Context) {
	patterns := h.store.ReadAll(c.Request.Context())
	respondOK(c, gin.H{"patterns": patterns, "total": len(patterns)})
}

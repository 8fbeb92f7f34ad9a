package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// UserDataHandler serves /api/user-data/*.
type UserDataHandler struct {
	profiles db.ProfileRepository
	log      *utils.Logger
}

func NewUserDataHandler(profiles db.ProfileRepository, log *utils.Logger) *UserDataHandler {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &UserDataHandler{profiles: profiles, log: log}
}

// Save POST /api/user-data/save
func (h *UserDataHandler) Save(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	profile.Email = strings.TrimSpace(profile.Email)
	if err := utils.ValidateEmail(profile.Email); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.Save(c.Request.Context(), &profile); err != nil {
		h.log.Error("failed to save profile", "email", profile.Email, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	respondOK(c, gin.H{"message": "Profile saved"})
}

// Get GET /api/user-data/:email
func (h *UserDataHandler) Get(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if err := utils.ValidateEmail(email); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), email)
	if errors.Is(err, db.ErrProfileNotFound) {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.log.Error("failed to read profile", "email", email, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to read profile")
		return
	}
	respondOK(c, gin.H{"profile": profile})
}

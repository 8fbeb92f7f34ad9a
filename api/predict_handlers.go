package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// PredictHandler serves POST /predict.
type PredictHandler struct {
	answers *services.AnswerService
	log     *utils.Logger
}

func NewPredictHandler(answers *services.AnswerService, log *utils.Logger) *PredictHandler {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &PredictHandler{answers: answers, log: log}
}

// Predict 预测表单问题的答案. Model trouble never reaches the client; only a bad body does.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidatePredictionRequest(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Info("prediction requested", "question", req.Question, "options", len(req.Options))
	resp := h.answers.Answer(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// ParseResume is reserved for resume parsing and answers the same way for every upload.
func ParseResume(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": "Resume parsing not yet implemented",
		"note":    "Endpoint reserved for future PDF/DOCX parsing",
	})
}

package ledger

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadchat_backend/platform/apperr"
	"leadchat_backend/platform/logger"
	"leadchat_backend/platform/validator"
)

// submitLeadRequest is the public lead submission payload.
type submitLeadRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Handler exposes the public lead submission endpoint.
type Handler struct {
	ledger Ledger
	val    *validator.Validator
	log    *logger.Logger
}

func NewHandler(ledger Ledger, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{ledger: ledger, val: val, log: log}
}

// RegisterRoutes mounts the lead routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.submitLead)
}

func (h *Handler) submitLead(c *gin.Context) {
	var req submitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and email are required."})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A valid email address is required."})
		return
	}

	row := Row{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProjectGoal: req.Message,
		Source:      "web_form",
	}

	if err := h.ledger.Append(c.Request.Context(), row); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lead already saved."})
			return
		}
		h.log.Error("lead submission failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save lead. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lead saved."})
}

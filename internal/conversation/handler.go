package conversation

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadchat_backend/internal/conversation/transport"
	"leadchat_backend/platform/httpkit"
	"leadchat_backend/platform/logger"
)

// maxUploadBytes limits voice and image uploads.
const maxUploadBytes = 5 << 20

// Handler routes chat requests to the conversation service.
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the chat routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.chat)
	group.POST("/voice", h.voice)
	group.POST("/image", h.image)
	group.POST("/speech", h.speech)
}

func (h *Handler) chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Session key and message are required.", nil)
		return
	}

	reply, err := h.svc.HandleText(c.Request.Context(), req.SessionKey, req.Message)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}

	httpkit.OK(c, toResponse(reply))
}

func (h *Handler) voice(c *gin.Context) {
	sessionKey := c.PostForm("sessionKey")
	if sessionKey == "" {
		httpkit.Error(c, http.StatusBadRequest, "Session key is required.", nil)
		return
	}

	filename, data, ok := h.readUpload(c, "audio", "audio/")
	if !ok {
		return
	}

	reply, err := h.svc.HandleVoice(c.Request.Context(), sessionKey, filename, data)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}

	httpkit.OK(c, toResponse(reply))
}

func (h *Handler) image(c *gin.Context) {
	sessionKey := c.PostForm("sessionKey")
	if sessionKey == "" {
		httpkit.Error(c, http.StatusBadRequest, "Session key is required.", nil)
		return
	}

	_, data, ok := h.readUpload(c, "image", "image/")
	if !ok {
		return
	}
	mimeType := http.DetectContentType(data)

	reply, err := h.svc.HandleImage(c.Request.Context(), sessionKey, c.PostForm("message"),
		mimeType, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}

	httpkit.OK(c, toResponse(reply))
}

func (h *Handler) speech(c *gin.Context) {
	var req transport.SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Text is required.", nil)
		return
	}

	audio, err := h.svc.Speech(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}

func (h *Handler) readUpload(c *gin.Context, field, mimePrefix string) (string, []byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "No "+field+" file provided.", nil)
		return "", nil, false
	}
	if mime := header.Header.Get("Content-Type"); !strings.HasPrefix(mime, mimePrefix) {
		httpkit.Error(c, http.StatusBadRequest, "Only "+field+" files are allowed.", nil)
		return "", nil, false
	}
	data, ok := h.readFile(c, header)
	return header.Filename, data, ok
}

func (h *Handler) readFile(c *gin.Context, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > maxUploadBytes {
		httpkit.Error(c, http.StatusBadRequest, "File too large. The limit is 5MB.", nil)
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error("upload open failed", "error", err)
		httpkit.Error(c, http.StatusBadRequest, "Could not read the uploaded file.", nil)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.log.Error("upload read failed", "error", err)
		httpkit.Error(c, http.StatusBadRequest, "Could not read the uploaded file.", nil)
		return nil, false
	}
	return data, true
}

func toResponse(reply Reply) transport.ChatResponse {
	resp := transport.ChatResponse{
		Reply:      reply.Text,
		Transcript: reply.Transcript,
	}
	if reply.Validation != nil {
		resp.EmailValidation = &transport.ValidationFeedback{
			IsValid:     reply.Validation.IsValid,
			Message:     reply.Validation.Message,
			Suggestions: reply.Validation.Suggestions,
		}
	}
	return resp
}

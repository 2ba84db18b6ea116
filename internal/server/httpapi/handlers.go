package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type fileResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:         f.ID,
		Filename:   f.Filename,
		UploadedAt: f.UploadedAt,
		Size:       f.Size,
		MimeType:   f.MimeType,
	}
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	token, user, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, token, s.cookieMaxAge, "/", "", false, true)

	// The token is also returned in the body for clients that cannot use
	// cookies and authenticate with a bearer header instead.
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   token,
		"user":    userResponse{ID: user.ID, Username: user.UserName},
	})
}

func (s *HTTPServer) handleSession(c *gin.Context) {
	userID := c.GetString(userIDKey)

	user, err := s.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		// Token valid but the row is gone: still a generic denial.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse{ID: user.ID, Username: user.UserName}})
}

// handleUpload streams the multipart body part-by-part into the ingestion
// service, so the payload is never buffered whole in memory.
func (s *HTTPServer) handleUpload(c *gin.Context) {
	userID := c.GetString(userIDKey)

	mr, err := c.Request.MultipartReader()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart body required"})
		return
	}

	var part *multipart.Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "malformed multipart body"})
			return
		}
		if p.FormName() == "file" && p.FileName() != "" {
			part = p
			break
		}
		_ = p.Close()
	}

	if part == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer part.Close()

	record, err := s.ingest.Ingest(
		c.Request.Context(),
		userID,
		part,
		part.FileName(),
		part.Header.Get("Content-Type"),
		c.Request.ContentLength,
	)
	if err != nil {
		s.writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    toFileResponse(record),
	})
}

func (s *HTTPServer) writeIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "payload too large"})
	case errors.Is(err, common.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"message": "unsupported media type"})
	case errors.Is(err, common.ErrUploadIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"message": "upload incomplete, please retry"})
	default:
		s.logger.Error(c.Request.Context(), "upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func (s *HTTPServer) handleListFiles(c *gin.Context) {
	userID := c.GetString(userIDKey)

	records, err := s.ingest.List(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "list files failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	files := make([]fileResponse, 0, len(records))
	for _, r := range records {
		files = append(files, toFileResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *HTTPServer) handleReport(c *gin.Context) {
	userID := c.GetString(userIDKey)
	fileID := c.Param("fileId")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.pdf", fileID))

	err := s.reports.Generate(c.Request.Context(), userID, fileID, c.Writer)
	if err == nil {
		return
	}

	if c.Writer.Written() {
		// Headers and part of the body are out; all we can do is log.
		s.logger.Error(c.Request.Context(), "report stream aborted", "file_id", fileID, "error", err)
		c.Abort()
		return
	}

	c.Writer.Header().Del("Content-Disposition")
	c.Writer.Header().Del("Content-Type")
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}
	s.logger.Error(c.Request.Context(), "report generation failed", "file_id", fileID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

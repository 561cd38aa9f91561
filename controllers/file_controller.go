package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/utils"
)

// DownloadFile handles GET /api/v1/files/:filename - serves an uploaded credential document
func DownloadFile(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if !utils.AllowedFile(filename) {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Unsupported file type")
		return
	}

	file, err := profileService().OpenCredential(c.Request.Context(), filename)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	c.DataFromReader(http.StatusOK, -1, utils.ContentTypeFor(filename), file, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
		"Cache-Control":       "private, max-age=3600",
	})
}

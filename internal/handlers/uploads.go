package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUploadedImage stores the uploaded file under dir and returns the
// reference path to keep on the product. No file selected is not an
// error. The reference is opaque to the rest of the system.
func saveUploadedImage(c *gin.Context, field, dir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		return "", fmt.Errorf("unsupported image format")
	}
	_ = os.MkdirAll(dir, 0o755)
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

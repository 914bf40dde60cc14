package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avelorn/blogward/config"
	"github.com/avelorn/blogward/middleware"
	"github.com/avelorn/blogward/utils"
)

// UploadController stores post images on local disk and hands back the public
// URL to record on the post.
type UploadController struct{}

// NewUploadController creates a new UploadController instance.
func NewUploadController() *UploadController {
	return &UploadController{}
}

// UploadImage accepts a multipart image for a post. Files are renamed to an
// opaque uuid so user-supplied names never reach the filesystem.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	viewer := middleware.CurrentViewer(ctx)
	if !viewer.Authenticated {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) * 1024 * 1024
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40061, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40062, "unsupported image type")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(cfg.UploadDir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create upload directory")
		return
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)
	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40061, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return
	}

	url := "/" + filepath.ToSlash(dstPath)
	utils.Success(ctx, gin.H{"url": url})
}

// Package uploads stores media assets and hands back the URL they are served
// from. The local backend writes to disk, the S3 backend to a bucket.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/server/config"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/google/uuid"
)

// Gateway is the asset store behind media and logo uploads.
type Gateway interface {
	// Store persists the stream under a fresh name derived from filename's
	// extension and reports the public URL and the media kind.
	Store(ctx context.Context, r io.Reader, filename string) (string, models.MediaType, error)
	// Delete removes the asset behind url. Missing assets are not an error.
	Delete(ctx context.Context, url string) error
}

var kinds = map[string]models.MediaType{
	".jpg":  models.MediaImage,
	".jpeg": models.MediaImage,
	".png":  models.MediaImage,
	".gif":  models.MediaImage,
	".webp": models.MediaImage,
	".mp4":  models.MediaVideo,
	".mov":  models.MediaVideo,
	".avi":  models.MediaVideo,
	".webm": models.MediaVideo,
}

// Classify maps a file name to its media kind by extension, ignoring case.
func Classify(filename string) (models.MediaType, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := kinds[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", common.ErrUnsupportedType, ext)
	}
	return kind, ext, nil
}

var now = time.Now

func storedName(ext string) string {
	return fmt.Sprintf("%s_%s%s", now().Format("20060102_150405"), uuid.NewString()[:8], ext)
}

// New builds the gateway selected by cfg.UploadBackend.
func New(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch cfg.UploadBackend {
	case config.UploadBackendLocal, "":
		return NewLocalGateway(cfg.UploadDir, cfg.UploadURLPrefix), nil
	case config.UploadBackendS3:
		return NewS3Gateway(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}

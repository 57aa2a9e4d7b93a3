package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

// LocalGateway keeps assets in a flat directory served under URLPrefix.
type LocalGateway struct {
	dir       string
	urlPrefix string
}

func NewLocalGateway(dir, urlPrefix string) *LocalGateway {
	return &LocalGateway{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Dir is the directory files are written to.
func (g *LocalGateway) Dir() string { return g.dir }

func (g *LocalGateway) Store(ctx context.Context, r io.Reader, filename string) (string, models.MediaType, error) {
	kind, ext, err := Classify(filename)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	name := storedName(ext)
	full := filepath.Join(g.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", "", fmt.Errorf("close %s: %w", name, err)
	}

	return g.urlPrefix + "/" + name, kind, nil
}

// Delete removes the file named by the last segment of url.
func (g *LocalGateway) Delete(ctx context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(g.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

package preset

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/logger"
)

// Fetch downloads a preset file from any go-getter source (local path,
// http(s), git::, s3::, gcs::) into dstDir and returns its local path.
func Fetch(ctx context.Context, src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", errdefs.IO("creating preset directory", err)
	}

	dst := filepath.Join(dstDir, presetFileName(src))

	logger.Info("fetching preset", zap.String("src", src), zap.String("dst", dst))
	if err := getter.GetFile(dst, src, getter.WithContext(ctx)); err != nil {
		return "", errdefs.IO(fmt.Sprintf("fetching preset %s", src), err)
	}
	return dst, nil
}

// presetFileName picks a local name that keeps the source's extension so
// Load can tell JSON from YAML.
func presetFileName(src string) string {
	s := src
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	base := path.Base(strings.ReplaceAll(s, "\\", "/"))
	switch strings.ToLower(path.Ext(base)) {
	case ".json", ".yaml", ".yml":
		return base
	}
	return "preset.json"
}

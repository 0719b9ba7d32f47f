package wordpress

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RelocateMedia downloads a featured image to local storage and returns its
// public-facing path. A zero id means the post has no featured image and
// triggers no work at all.
//
// The media file's upload path has its directory separators flattened into
// the filename ("2024/01/pic.jpg" becomes "2024-01-pic.jpg") so everything
// can live under one date-stamped import directory without collisions.
func (p *Platform) RelocateMedia(ctx context.Context, mediaID int) (string, error) {
	if mediaID == 0 {
		return "", nil
	}

	media, err := p.client.Media(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("fetch media %d: %w", mediaID, err)
	}

	name := strings.ReplaceAll(media.MediaDetails.File, "/", "-")
	dir := filepath.Join(p.cfg.StorageRoot, p.runDate)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if err := p.client.Download(ctx, media.SourceURL, f); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("download media %d: %w", mediaID, err)
	}

	p.log.Debug().
		Int("media_id", mediaID).
		Str("file", dest).
		Msg("Media relocated")

	return path.Join(p.cfg.PublicPrefix, p.runDate, name), nil
}

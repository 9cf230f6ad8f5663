package camera

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileSink writes the latest frame to <dir>/<code><ext>, replacing the
// previous one atomically.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".img"
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".img"
}

// Path is where frames for the station code end up
func (s *FileSink) Path(code, contentType string) string {
	return filepath.Join(s.dir, code+extension(contentType))
}

func (s *FileSink) Show(img Image) error {
	path := s.Path(img.Station.Code, img.ContentType)

	tmp, err := os.CreateTemp(s.dir, img.Station.Code+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing frame: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing frame: %w", err)
	}

	log.Debug().Str("path", path).Int("bytes", len(img.Data)).Msg("Camera frame saved")
	return nil
}

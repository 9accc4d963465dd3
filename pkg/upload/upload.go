// Package upload stores images added through the property editor.
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gnana997/promokit/pkg/util"
)

// MaxSize is the largest accepted image in bytes.
const MaxSize = 5 << 20

var (
	ErrTooLarge    = errors.New("upload: file too large (max 5MB)")
	ErrUnsupported = errors.New("upload: unsupported file type")
	ErrEmpty       = errors.New("upload: empty file")
)

// allowedTypes maps accepted content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

// Local writes uploads into a directory and returns URLs below BaseURL.
// Files get random names, so an upload never replaces an earlier one.
type Local struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewLocal creates an uploader storing files in dir. baseURL is the URL
// prefix the directory is served under, e.g. "/uploads".
func NewLocal(dir, baseURL string, logger *slog.Logger) *Local {
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  util.OrDefault(logger),
	}
}

// Dir returns the storage directory.
func (l *Local) Dir() string { return l.dir }

// Upload stores the image read from r and returns its URL. The type is
// sniffed from the content; filename only decides between SVG and other XML.
func (l *Local) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	if len(head) == 0 {
		return "", ErrEmpty
	}
	ct := contentType(filename, head)
	ext, ok := allowedTypes[ct]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:16] + "." + ext
	dst := filepath.Join(l.dir, name)

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(br, MaxSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if n > MaxSize {
		return "", ErrTooLarge
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("store %s: %w", filename, err)
	}

	l.logger.Info("image uploaded", "file", filename, "stored", name, "bytes", n)
	return l.baseURL + "/" + name, nil
}

// contentType sniffs head. SVG is text to the sniffer, so it is recognised
// by extension plus an <svg element in the first bytes.
func contentType(filename string, head []byte) string {
	ct, _, _ := strings.Cut(http.DetectContentType(head), ";")
	if strings.EqualFold(path.Ext(filename), ".svg") && strings.Contains(string(head), "<svg") {
		return "image/svg+xml"
	}
	return ct
}

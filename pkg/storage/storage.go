package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/utkandevrim/ac/pkg/errors"
)

// Upload rejections are bad requests.
var (
	ErrUnsupportedType = apperrors.New(apperrors.ErrBadRequest, "only image files (jpg, jpeg, png, gif, webp) can be uploaded")
	ErrTooLarge        = apperrors.New(apperrors.ErrBadRequest, "file exceeds the upload size limit")
	ErrNoFile          = apperrors.New(apperrors.ErrBadRequest, "no file selected")
)

var allowedExt = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads"

// Local stores uploads on the local filesystem under one directory.
type Local struct {
	dir      string
	maxBytes int64
}

// NewLocal creates dir if needed.
func NewLocal(dir string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, maxBytes: maxBytes}, nil
}

// Save writes r under a random name keeping filename's extension and returns
// the public URL path. Partial files are removed on failure.
func (l *Local) Save(filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrNoFile
	}
	ext := Ext(filename)
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	name := uuid.New().String() + "." + ext
	full := filepath.Join(l.dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, l.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > l.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(full)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Ext returns the lowercased extension without the dot.
func Ext(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

package echoapi

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// uploadDir stores uploaded files under unique names.
type uploadDir string

func (dir uploadDir) save(fh *multipart.FileHeader, prefix string) (string, error) {
	base := strings.ReplaceAll(filepath.Base(filepath.Clean("/"+fh.Filename)), " ", "_")
	name := prefix + "_" + uuid.New().String() + "_" + base

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(filepath.Join(string(dir), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", errors.Wrap(err, "creating upload")
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		dir.remove(name)
		return "", errors.Wrap(err, "writing upload")
	}
	return name, errors.Wrap(dst.Close(), "writing upload")
}

func (dir uploadDir) remove(name string) {
	if name != "" {
		_ = os.Remove(filepath.Join(string(dir), name))
	}
}

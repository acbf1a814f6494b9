package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// 8 MiB covers every cover image we have seen so far.
const maxUploadBytes = 8 << 20

var errUnsupportedImage = errors.New("image must be a png, jpg or jpeg file")

// saveImage stores the uploaded cover under the upload dir as
// <bookID>.<ext> and returns the stored filename. An absent file part
// is fine and yields an empty name.
func (d *Deps) saveImage(r *http.Request, bookID string) (string, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		return "", errUnsupportedImage
	}

	if err := os.MkdirAll(d.UploadDir, 0o755); err != nil {
		return "", err
	}

	filename := bookID + ext

	dst, err := os.Create(filepath.Join(d.UploadDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return filename, nil
}

// isNil reports whether a generic value holds a nil pointer, which a
// plain == nil cannot see through an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}

	return false
}

package filesvc

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/document"
)

var (
	ErrFileTooLarge = core.NewValidationError(errors.New("file exceeds the maximum allowed size"))

	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

	// subdirectory per content type
	typeDirs = map[string]string{
		document.TypeGallery: "gallery",
		document.TypeAbout:   "gallery",
		document.TypeNews:    "gallery",
		document.TypeEvent:   "gallery",
		document.TypeProfile: "profiles",
		document.TypeResult:  "results",
	}
	defaultDir = "documents"

	imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	docTypes   = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	sheetTypes = []string{
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}

	// allowed MIME types per content type
	allowedTypes = map[string][]string{
		document.TypeGallery:   imageTypes,
		document.TypeAbout:     imageTypes,
		document.TypeNews:      imageTypes,
		document.TypeEvent:     imageTypes,
		document.TypeProfile:   imageTypes,
		document.TypeSyllabus:  docTypes,
		document.TypeDatesheet: append(append([]string{}, docTypes...), sheetTypes...),
		document.TypeResult:    append([]string{"application/pdf"}, sheetTypes...),
		document.TypeForm:      {"application/pdf"},
		document.TypeDocument:  append(append(append([]string{}, docTypes...), sheetTypes...), "image/jpeg", "image/png"),
	}
)

// LocalStore persists uploaded files on the local disk, one subdirectory per
// content type. It is configured explicitly at construction; it owns no
// global state.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(conf *core.Config) (*LocalStore, error) {
	store := &LocalStore{
		root:    conf.Uploads.Dir,
		maxSize: conf.Uploads.MaxSize,
	}
	for _, dir := range []string{"documents", "gallery", "profiles", "results"} {
		if err := os.MkdirAll(filepath.Join(store.root, dir), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating upload directory")
		}
	}
	return store, nil
}

// Save validates and stores one file and returns its public path
// ("/uploads/<dir>/<name>"). The caller stores the returned URL verbatim.
func (s *LocalStore) Save(docType, filename, contentType string, src io.Reader) (string, error) {
	if err := s.checkContentType(docType, contentType); err != nil {
		return "", err
	}

	dir, ok := typeDirs[docType]
	if !ok {
		dir = defaultDir
	}
	name := s.uniqueName(filename)

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	defer func() { _ = dst.Close() }()

	// copy one byte past the cap to detect oversized input
	n, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return "", errors.Wrap(err, "writing file")
	}
	if n > s.maxSize {
		_ = os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}
	return path.Join("/uploads", dir, name), nil
}

func (s *LocalStore) checkContentType(docType, contentType string) error {
	allowed, ok := allowedTypes[docType]
	if !ok {
		allowed = allowedTypes[document.TypeDocument]
	}
	for _, mime := range allowed {
		if mime == contentType {
			return nil
		}
	}
	return core.NewValidationError(
		errors.Errorf("invalid file type %s for %s uploads", contentType, docType),
		core.FieldError{Field: "file", Error: "file type not allowed for this upload type"},
	)
}

// uniqueName sanitizes the original name and appends a unique suffix,
// keeping the extension.
func (s *LocalStore) uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.ToLower(unsafeChars.ReplaceAllString(strings.TrimSuffix(filepath.Base(filename), ext), "-"))
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixNano()/int64(time.Millisecond), rand.Intn(1e9))
	return base + "-" + suffix + ext
}

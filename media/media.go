// Package media uploads seller images and videos through presigned URLs.
// Only the returned media URL is kept; the file bytes go straight to storage.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
)

type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
)

const (
	DefaultMaxImageBytes = 10 << 20
	DefaultMaxVideoBytes = 200 << 20
)

// Storage receives the raw PUT. *apiclient.Client satisfies it.
type Storage interface {
	Upload(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) error
}

// File is a file picked by the seller
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type presigned struct {
	UploadURL string `json:"upload_url"`
	MediaURL  string `json:"media_url"`
}

type Uploader struct {
	storage       Storage
	maxImageBytes int64
	maxVideoBytes int64
}

func NewUploader(storage Storage) *Uploader {
	return &Uploader{
		storage:       storage,
		maxImageBytes: DefaultMaxImageBytes,
		maxVideoBytes: DefaultMaxVideoBytes,
	}
}

// WithLimits overrides the per-type size limits
func (u *Uploader) WithLimits(image, video int64) *Uploader {
	u.maxImageBytes = image
	u.maxVideoBytes = video
	return u
}

// Upload presigns, PUTs the file and returns the media URL to store
func (u *Uploader) Upload(ctx context.Context, r apiclient.Requester, t Type, f File) (string, error) {
	ext := Extension(f.Name)
	if ext == "" {
		return "", errors.Validation(fmt.Sprintf("%s has no file extension", f.Name))
	}
	if limit := u.limit(t); f.Size > limit {
		return "", errors.Validation(fmt.Sprintf("%s is %s, the limit is %s",
			f.Name, humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(limit))))
	}

	var p presigned
	body := map[string]string{"media_type": string(t), "file_extension": ext}
	if err := apiclient.Post(ctx, r, "/api/media/presign-upload", body, &p); err != nil {
		return "", errors.Wrapf(err, "presign %s upload", t)
	}
	if p.UploadURL == "" || p.MediaURL == "" {
		return "", errors.Wrapf(errors.ErrBadEnvelope, "presign response missing urls")
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension("." + ext)
	}
	if err := u.storage.Upload(ctx, p.UploadURL, contentType, f.Body, f.Size); err != nil {
		return "", err
	}

	log.Debug().Str("type", string(t)).Str("size", humanize.IBytes(uint64(max(f.Size, 0)))).Msg("media uploaded")
	return p.MediaURL, nil
}

func (u *Uploader) limit(t Type) int64 {
	if t == TypeVideo {
		return u.maxVideoBytes
	}
	return u.maxImageBytes
}

// Extension returns the lower-cased extension of name without the dot
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

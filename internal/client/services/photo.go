package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/dmitrijs2005/loveops/internal/netx"
)

const defaultPhotoExt = "jpg"

var ErrNoPhoto = errors.New("no file selected")

var mimeToExt = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// PhotoExt picks the storage extension: the file name's when it is a known
// image type, otherwise the content type's, otherwise jpg.
func PhotoExt(fileName, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return ext
	}
	if e, ok := mimeToExt[contentType]; ok {
		return e
	}
	return defaultPhotoExt
}

type Presigner interface {
	PresignPhotoUpload(ctx context.Context, ext string) (client.PhotoUpload, error)
}

// PhotoUpdater is satisfied by the person and date collections.
type PhotoUpdater[T any] interface {
	Update(ctx context.Context, id string, fn func(T) T) (bool, error)
}

// PhotoService uploads images to object storage and records their public
// URLs on persons and dates.
type PhotoService struct {
	presigner Presigner
	identity  Identity
	persons   PhotoUpdater[models.Person]
	dates     PhotoUpdater[models.DateRecord]
	http      *http.Client
	log       logging.Logger
}

// NewPhotoService returns the service. A nil presigner means no server is
// configured.
func NewPhotoService(p Presigner, id Identity, persons PhotoUpdater[models.Person], dates PhotoUpdater[models.DateRecord], httpClient *http.Client, log logging.Logger) *PhotoService {
	return &PhotoService{
		presigner: p,
		identity:  id,
		persons:   persons,
		dates:     dates,
		http:      httpClient,
		log:       log.With("component", "photo"),
	}
}

// Upload stores data and returns its public URL.
func (s *PhotoService) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoPhoto
	}
	if s.presigner == nil {
		return "", common.ErrNotConfigured
	}
	if _, ok := s.identity.Current(); !ok {
		return "", client.ErrUnauthorized
	}

	ext := PhotoExt(fileName, contentType)
	slot, err := s.presigner.PresignPhotoUpload(ctx, ext)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}

	if contentType == "" {
		contentType = netx.ContentTypeFor(ext)
	}
	if err := netx.UploadToPresignedURL(ctx, s.http, slot.UploadURL, contentType, data); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	s.log.Info(ctx, "photo uploaded", "key", slot.Key, "bytes", len(data))
	return slot.PublicURL, nil
}

// AddToPerson uploads the photo and appends its URL to the person.
func (s *PhotoService) AddToPerson(ctx context.Context, personID, fileName, contentType string, data []byte) (string, error) {
	url, err := s.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return "", err
	}
	found, err := s.persons.Update(ctx, personID, func(p models.Person) models.Person {
		p.Photos = append(p.Photos, url)
		p.UpdatedAt = models.Now()
		return p
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", common.ErrorNotFound
	}
	return url, nil
}

// AddToDate uploads the photo and appends its URL to the date record.
func (s *PhotoService) AddToDate(ctx context.Context, dateID, fileName, contentType string, data []byte) (string, error) {
	url, err := s.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return "", err
	}
	found, err := s.dates.Update(ctx, dateID, func(d models.DateRecord) models.DateRecord {
		d.Photos = append(d.Photos, url)
		d.UpdatedAt = models.Now()
		return d
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", common.ErrorNotFound
	}
	return url, nil
}

package service

import (
	"fmt"
	"mime/multipart"

	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/storage"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the per-file upload cap (2MB).
const MaxImageSize = 2 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ImageService struct {
	imageRepo *repository.ImageRepository
	store     *storage.LocalStore
}

func NewImageService(imageRepo *repository.ImageRepository, store *storage.LocalStore) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		store:     store,
	}
}

// Upload validates the whole batch first, then writes files and rows. One
// invalid file rejects everything. The row inserts run in a single
// transaction; files already on disk are removed if that transaction fails.
func (s *ImageService) Upload(property *models.Property, files []*multipart.FileHeader) ([]models.Image, error) {
	if len(files) == 0 {
		return nil, FieldErrors{"images": "Au moins une image est requise"}
	}

	exts, fieldErrors := s.validateBatch(files)
	if len(fieldErrors) > 0 {
		logger.Log.Warn("Image upload validation failed",
			zap.String("property_id", property.ID.String()),
			zap.Int("files", len(files)),
			zap.Int("field_errors", len(fieldErrors)),
		)
		return nil, fieldErrors
	}

	var paths []string
	cleanup := func() {
		for _, p := range paths {
			if err := s.store.Remove(p); err != nil {
				logger.Log.Warn("Failed to remove orphaned upload", zap.String("path", p), zap.Error(err))
			}
		}
	}

	images := make([]models.Image, 0, len(files))
	for i, file := range files {
		path, err := s.store.Save(file, exts[i])
		if err != nil {
			logger.Log.Error("Failed to store uploaded image",
				zap.String("property_id", property.ID.String()),
				zap.Error(err),
			)
			cleanup()
			return nil, err
		}
		paths = append(paths, path)

		images = append(images, models.Image{
			ID:         uuid.New(),
			PropertyID: property.ID,
			Path:       path,
		})
	}

	if err := s.imageRepo.CreateBatch(images); err != nil {
		logger.Log.Error("Failed to persist image batch",
			zap.String("property_id", property.ID.String()),
			zap.Error(err),
		)
		cleanup()
		return nil, err
	}

	logger.Log.Info("Images uploaded",
		zap.String("property_id", property.ID.String()),
		zap.Int("count", len(images)),
	)

	return images, nil
}

// PublicURL maps a stored image path to the URL it is served from.
func (s *ImageService) PublicURL(path string) string {
	return s.store.PublicURL(path)
}

// validateBatch checks size and sniffed content type for every file before
// anything is written. Returns the detected extension per file on success.
func (s *ImageService) validateBatch(files []*multipart.FileHeader) ([]string, FieldErrors) {
	fieldErrors := FieldErrors{}
	exts := make([]string, len(files))

	for i, file := range files {
		key := fmt.Sprintf("images.%d", i)

		if file.Size > MaxImageSize {
			fieldErrors[key] = "Taille maximale: 2MB par image"
			continue
		}

		src, err := file.Open()
		if err != nil {
			fieldErrors[key] = "Le fichier doit être une image"
			continue
		}
		mtype, err := mimetype.DetectReader(src)
		src.Close()
		if err != nil {
			fieldErrors[key] = "Le fichier doit être une image"
			continue
		}

		if !isAllowedImageType(mtype) {
			fieldErrors[key] = "Formats autorisés: jpeg, png, webp"
			continue
		}

		exts[i] = mtype.Extension()
	}

	if len(fieldErrors) == 0 {
		return exts, nil
	}
	return nil, fieldErrors
}

func isAllowedImageType(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

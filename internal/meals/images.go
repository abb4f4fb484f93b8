package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mealdiary/internal/blob"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedMime = errors.New("unsupported mime type")
	ErrNoImage         = errors.New("meal has no image")
)

// ImageService attaches photos to meals. Blobs live in the configured blob
// store; the meal record only carries the object key in its image_url.
type ImageService struct {
	meals        *Service
	blobStore    blob.Store
	presignTTL   int
	maxUploadMB  int
	allowedMimes []string
}

// NewImageService creates an image service on top of the meal service.
func NewImageService(meals *Service, blobStore blob.Store, presignTTLSeconds, maxUploadMB int, allowedMimes string) *ImageService {
	mimes := strings.Split(allowedMimes, ",")
	for i, m := range mimes {
		mimes[i] = strings.TrimSpace(m)
	}

	return &ImageService{
		meals:        meals,
		blobStore:    blobStore,
		presignTTL:   presignTTLSeconds,
		maxUploadMB:  maxUploadMB,
		allowedMimes: mimes,
	}
}

// Upload stores the uploaded file and points the meal's image_url at it.
func (s *ImageService) Upload(ctx context.Context, id uuid.UUID, fileHeader *multipart.FileHeader) (*MealDTO, error) {
	// The meal must exist before we accept bytes for it.
	if _, err := s.meals.Get(ctx, id); err != nil {
		return nil, err
	}

	maxBytes := int64(s.maxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !s.isAllowedMime(contentType) {
		return nil, ErrUnsupportedMime
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	objectKey := fmt.Sprintf("meals/%s/image", id.String())
	if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	meal, err := s.meals.SetImageURL(ctx, id, objectKey)
	if err != nil {
		_ = s.blobStore.DeleteObject(ctx, objectKey)
		return nil, err
	}

	return meal, nil
}

// DownloadURL returns a presigned URL and true when the blob store supports
// redirects, or "" and false when the image must be served directly.
func (s *ImageService) DownloadURL(ctx context.Context, id uuid.UUID) (string, bool, error) {
	meal, err := s.meals.Get(ctx, id)
	if err != nil {
		return "", false, err
	}
	if meal.ImageURL == "" {
		return "", false, ErrNoImage
	}

	url, err := s.blobStore.PresignGet(ctx, meal.ImageURL, s.presignTTL)
	if err != nil {
		if errors.Is(err, blob.ErrPresignUnsupported) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to presign image URL: %w", err)
	}

	return url, true, nil
}

// Data returns the raw image bytes and content type.
func (s *ImageService) Data(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meal, err := s.meals.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if meal.ImageURL == "" {
		return nil, "", ErrNoImage
	}

	data, contentType, err := s.blobStore.GetObjectWithType(ctx, meal.ImageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get image: %w", err)
	}

	return data, contentType, nil
}

func (s *ImageService) isAllowedMime(contentType string) bool {
	for _, allowed := range s.allowedMimes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

// HandleUploadImage handles POST /v1/meals/{id}/image (multipart, field "file")
func HandleUploadImage(service *ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMealID(w, r)
		if !ok {
			return
		}

		maxBytes := int64(service.maxUploadMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_multipart", "invalid multipart form")
			return
		}

		_, fileHeader, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_file", "file field is required")
			return
		}

		meal, err := service.Upload(r.Context(), id, fileHeader)
		if err != nil {
			switch {
			case errors.Is(err, ErrMealNotFound):
				writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
			case errors.Is(err, ErrFileTooLarge):
				writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
			case errors.Is(err, ErrUnsupportedMime):
				writeError(w, http.StatusUnsupportedMediaType, "unsupported_mime", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(meal)
	}
}

// HandleGetImage handles GET /v1/meals/{id}/image. S3-backed images redirect
// to a presigned URL; locally stored images are served inline.
func HandleGetImage(service *ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMealID(w, r)
		if !ok {
			return
		}

		url, redirect, err := service.DownloadURL(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, ErrMealNotFound):
				writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
			case errors.Is(err, ErrNoImage):
				writeError(w, http.StatusNotFound, "image_not_found", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		if redirect {
			http.Redirect(w, r, url, http.StatusFound)
			return
		}

		data, contentType, err := service.Data(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

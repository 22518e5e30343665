package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/repository/storage"
)

const (
	maxAvatarSize   = 5 * 1024 * 1024 // 5MB
	avatarDimension = 256
	avatarQuality   = 85
)

// AvatarService handles avatar upload and processing
type AvatarService struct {
	avatarRepo     storage.AvatarRepository
	preferenceRepo domain.PreferenceRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(avatarRepo storage.AvatarRepository, preferenceRepo domain.PreferenceRepository) *AvatarService {
	return &AvatarService{avatarRepo: avatarRepo, preferenceRepo: preferenceRepo}
}

// UploadAvatar validates and resizes the uploaded image, stores it and
// records the resulting URL in the user's preferences. Images are
// center-cropped to a square and re-encoded as JPEG.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if file.Size > maxAvatarSize {
		return "", fmt.Errorf("%w: file exceeds 5MB limit", domain.ErrInvalidInput)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", fmt.Errorf("%w: only JPEG and PNG images are accepted", domain.ErrInvalidInput)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: file is not a valid image", domain.ErrInvalidInput)
	}

	thumb := imaging.Fill(img, avatarDimension, avatarDimension, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(avatarQuality)); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	objectPath := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New())
	url, err := s.avatarRepo.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if _, err := s.preferenceRepo.Update(userID, &domain.PreferenceUpdate{AvatarURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}

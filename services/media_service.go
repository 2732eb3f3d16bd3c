package services

import (
	"context"
	"fmt"
	"time"

	config "github.com/Sr1515/social_network/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	PostImageFolder  = "social_network_posts"
	TranscriptFolder = "social_network_transcripts"
	AvatarFolder     = "social_network_avatars"

	// Post images are scaled down to fit 800x600, never up.
	postImageTransformation = "c_limit,w_800,h_600"
	uploadTimeout           = 10 * time.Second
)

func newCloudinary() (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return cld, nil
}

// UploadPostImage stores an image for authorID's post and returns its HTTPS URL.
// file is anything the Cloudinary uploader accepts, typically a *multipart.FileHeader.
func UploadPostImage(ctx context.Context, file interface{}, authorID uuid.UUID) (string, error) {
	cld, err := newCloudinary()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         PostImageFolder,
		PublicID:       fmt.Sprintf("%s_%s", authorID, uuid.NewString()),
		Transformation: postImageTransformation,
	})
	if err != nil {
		return "", fmt.Errorf("upload post image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload post image: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

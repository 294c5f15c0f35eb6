package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// ErrUnsupportedImage reports an upload with a disallowed extension.
var ErrUnsupportedImage = errors.New("unsupported image format")

// saveUploadedImage stores a product image under uploadDir and returns
// the bare filename to keep on the product record (no path prefix).
// PNG and JPEG uploads are downscaled to max width 800 and re-encoded
// as JPEG; GIFs are stored verbatim so animations survive.
func saveUploadedImage(file multipart.File, header *multipart.FileHeader, uploadDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))

	var img image.Image
	var err error
	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	case ".gif":
		return copyVerbatim(file, uploadDir, ".gif")
	default:
		return "", ErrUnsupportedImage
	}
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Resize image (max width 800px, preserve aspect ratio)
	newImage := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	out, err := os.Create(filepath.Join(uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, newImage, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return filename, nil
}

func copyVerbatim(file multipart.File, uploadDir, ext string) (string, error) {
	filename := uuid.New().String() + ext
	out, err := os.Create(filepath.Join(uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return filename, nil
}

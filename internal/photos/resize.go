package photos

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/onboard/internal/models"
	"golang.org/x/image/draw"
)

const jpegQuality = 85

// ResizingUploader downscales photos whose longer edge exceeds MaxDimension
// before handing them to Next. Undecodable data is passed through untouched.
type ResizingUploader struct {
	Next         Uploader
	MaxDimension int
}

func NewResizingUploader(next Uploader, maxDimension int) *ResizingUploader {
	return &ResizingUploader{Next: next, MaxDimension: maxDimension}
}

func (r *ResizingUploader) Upload(ctx context.Context, photo *models.Photo) (string, error) {
	if scaled, ok := r.downscale(photo); ok {
		return r.Next.Upload(ctx, scaled)
	}
	return r.Next.Upload(ctx, photo)
}

// downscale returns a resized JPEG copy of photo. The draft photo itself is
// never modified.
func (r *ResizingUploader) downscale(photo *models.Photo) (*models.Photo, bool) {
	if r.MaxDimension <= 0 || photo == nil || len(photo.Data) == 0 {
		return nil, false
	}

	src, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		return nil, false
	}

	w, h := FitWithin(src.Bounds().Dx(), src.Bounds().Dy(), r.MaxDimension)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false
	}

	return &models.Photo{
		Name:        photo.Name,
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, true
}

// FitWithin scales w×h down so that neither side exceeds limit, keeping the
// aspect ratio. Sizes already within the limit are returned unchanged.
func FitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}

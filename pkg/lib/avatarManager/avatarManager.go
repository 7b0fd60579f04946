package avatarManager

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
)

var (
	ErrInternal                = errors.New("internal server error")
	ErrInvalidTypeAvatar       = errors.New("invalid type avatar, supported avatar formats are jpg, jpeg, png, webp, or no animated gif")
	ErrInvalidResolutionAvatar = errors.New("invalid resolution avatar, supported avatar resolution 1x1")
)

// ParsingAvatarImage декодирует загруженный аватар, проверяет формат и
// пропорции 1:1 и возвращает две webp-версии: 64x64 и 512x512.
func ParsingAvatarImage(file *multipart.File) ([]byte, []byte, error) {
	buffer := new(bytes.Buffer)
	if _, err := io.Copy(buffer, *file); err != nil {
		return nil, nil, ErrInternal
	}

	var img image.Image
	var err error
	contentType := http.DetectContentType(buffer.Bytes())

	switch contentType {
	case "image/png":
		img, err = png.Decode(buffer)
	case "image/jpeg":
		img, err = jpeg.Decode(buffer)
	case "image/gif":
		isNonAnimated, gifErr := isNonAnimatedGIF(bytes.NewReader(buffer.Bytes()))
		if gifErr != nil || !isNonAnimated {
			return nil, nil, ErrInvalidTypeAvatar
		}
		img, err = gif.Decode(buffer)
	case "image/webp":
		img, err = webp.Decode(buffer)
	default:
		return nil, nil, ErrInvalidTypeAvatar
	}

	if err != nil {
		return nil, nil, ErrInvalidTypeAvatar
	}

	bounds := img.Bounds()
	if bounds.Dx() != bounds.Dy() {
		return nil, nil, ErrInvalidResolutionAvatar
	}

	var wg sync.WaitGroup
	var buf512, buf64 []byte
	var err512, err64 error

	wg.Add(1)
	go func() {
		defer wg.Done()
		resized := resize.Resize(512, 512, img, resize.Lanczos3)
		out := new(bytes.Buffer)
		if err := webp.Encode(out, resized, &webp.Options{Quality: 80}); err != nil {
			err512 = ErrInternal
			return
		}
		buf512 = out.Bytes()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		resized := resize.Resize(64, 64, img, resize.Lanczos3)
		out := new(bytes.Buffer)
		if err := webp.Encode(out, resized, &webp.Options{Quality: 80}); err != nil {
			err64 = ErrInternal
			return
		}
		buf64 = out.Bytes()
	}()

	wg.Wait()

	if err512 != nil {
		return nil, nil, err512
	}
	if err64 != nil {
		return nil, nil, err64
	}

	return buf64, buf512, nil
}

func isNonAnimatedGIF(reader io.Reader) (bool, error) {
	img, err := gif.DecodeAll(reader)
	if err != nil {
		return false, err
	}
	return len(img.Image) == 1, nil
}

package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func TestWriteFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	dir := t.TempDir()

	type spec struct {
		file   string
		decode func(string) (image.Image, error)
		expErr bool
	}

	decodeWith := func(decode func(*os.File) (image.Image, error)) func(string) (image.Image, error) {
		return func(file string) (image.Image, error) {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return decode(f)
		}
	}

	specs := []spec{
		{"frame.png", decodeWith(func(f *os.File) (image.Image, error) { return png.Decode(f) }), false},
		{"frame.BMP", decodeWith(func(f *os.File) (image.Image, error) { return bmp.Decode(f) }), false},
		{"frame.tga", nil, true},
	}

	for specIndex, s := range specs {
		file := filepath.Join(dir, s.file)
		err := writeFrame(file, img)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", specIndex)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", specIndex, err)
		}

		decoded, err := s.decode(file)
		if err != nil {
			t.Fatalf("[spec %d] decoding failed: %v", specIndex, err)
		}
		if decoded.Bounds() != img.Bounds() {
			t.Fatalf("[spec %d] expected bounds %v; got %v", specIndex, img.Bounds(), decoded.Bounds())
		}
		r, g, b, _ := decoded.At(1, 1).RGBA()
		if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
			t.Fatalf("[spec %d] expected pixel (200, 100, 50); got (%d, %d, %d)", specIndex, r>>8, g>>8, b>>8)
		}
	}
}

type failingCloser struct {
	bytes.Buffer
}

func (fc *failingCloser) Close() error {
	return errors.New("disk full")
}

func TestWriteFrameCloseError(t *testing.T) {
	defer func(orig func(string) (io.WriteCloser, error)) { createFile = orig }(createFile)

	out := &failingCloser{}
	createFile = func(string) (io.WriteCloser, error) { return out, nil }

	err := writeFrame("frame.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected close error to be reported; got %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected encoded frame to be written before closing")
	}
}

package backend

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// PixelSurface is a presentation target for composed frames.
type PixelSurface interface {
	// Canvas returns the drawing target for the next frame, sized to
	// exactly width x height pixels.
	Canvas(width, height int) draw.Image

	// Present publishes the canvas.
	Present() error
}

// ImageSurface presents frames into an in-memory image.
// The canvas (back buffer) and the presented image (front buffer) are
// distinct, so a reader never observes a partially drawn frame.
type ImageSurface struct {
	mu        sync.RWMutex
	back      *image.RGBA
	front     *image.RGBA
	presented uint64
}

// NewImageSurface creates an empty image surface.
func NewImageSurface() *ImageSurface {
	return &ImageSurface{}
}

// Canvas implements PixelSurface.
func (s *ImageSurface) Canvas(width, height int) draw.Image {
	r := image.Rect(0, 0, width, height)
	if s.back == nil || s.back.Bounds() != r {
		s.back = image.NewRGBA(r)
	}
	return s.back
}

// Present implements PixelSurface.
func (s *ImageSurface) Present() error {
	if s.back == nil {
		return fmt.Errorf("present: %w", ErrNoCanvas)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil || s.front.Bounds() != s.back.Bounds() {
		s.front = image.NewRGBA(s.back.Bounds())
	}
	copy(s.front.Pix, s.back.Pix)
	s.presented++
	return nil
}

// Image returns a copy of the last presented frame, or nil.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.front == nil {
		return nil
	}
	out := image.NewRGBA(s.front.Bounds())
	copy(out.Pix, s.front.Pix)
	return out
}

// Presented returns the number of frames presented.
func (s *ImageSurface) Presented() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presented
}

// PNGSurface encodes every presented frame as PNG.
type PNGSurface struct {
	ImageSurface
	open func() (io.WriteCloser, error)
}

// NewPNGSurface creates a surface writing frames to w.
func NewPNGSurface(w io.Writer) *PNGSurface {
	return &PNGSurface{open: func() (io.WriteCloser, error) { return nopCloser{w}, nil }}
}

// NewPNGFileSurface creates a surface that rewrites path on every present.
func NewPNGFileSurface(path string) *PNGSurface {
	return &PNGSurface{open: func() (io.WriteCloser, error) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		return os.Create(path)
	}}
}

// Present implements PixelSurface.
func (s *PNGSurface) Present() error {
	if err := s.ImageSurface.Present(); err != nil {
		return err
	}
	w, err := s.open()
	if err != nil {
		return fmt.Errorf("present png: %w", err)
	}
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, s.back); err != nil {
		_ = w.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = w.Close()
		return fmt.Errorf("flush png: %w", err)
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Package pdftoppm renders PDF pages to PNG with poppler's pdftoppm tool.
package pdftoppm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/poiesic/personarank/ocr"
)

// ErrNotInstalled is returned when the pdftoppm binary cannot be found.
var ErrNotInstalled = errors.New("pdftoppm not found in PATH")

// Rasterizer shells out to pdftoppm.
type Rasterizer struct {
	binary string
	dpi    int
}

// NewRasterizer locates pdftoppm. dpi <= 0 selects 300.
func NewRasterizer(dpi int) (*Rasterizer, error) {
	path, err := exec.LookPath("pdftoppm")
	if err != nil {
		return nil, ErrNotInstalled
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{binary: path, dpi: dpi}, nil
}

var _ ocr.Rasterizer = (*Rasterizer)(nil)

// Rasterize renders page (1-based) of document as PNG.
func (r *Rasterizer) Rasterize(ctx context.Context, document []byte, page int) ([]byte, error) {
	p := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, r.binary,
		"-png", "-singlefile",
		"-r", strconv.Itoa(r.dpi),
		"-f", p, "-l", p,
		"-") // document on stdin, image on stdout
	cmd.Stdin = bytes.NewReader(document)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("pdftoppm page %d: empty output", page)
	}
	return stdout.Bytes(), nil
}

// Package qr renders the public booking URL as a scannable image for
// print and front-desk display.
package qr

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

const (
	defaultSize = 512
	maxSize     = 2048
	bookingPath = "/book"
)

// Generator encodes the booking page URL into PNG images.
type Generator struct {
	baseURL string
}

// NewGenerator creates a generator for the given public base URL.
func NewGenerator(publicBaseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// BookingURL is the fully-qualified public booking page URL. No
// parameters and no state are carried in it.
func (g *Generator) BookingURL() string {
	return g.baseURL + bookingPath
}

// PNG renders the booking URL as a size x size PNG.
func (g *Generator) PNG(size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	png, err := qrcode.Encode(g.BookingURL(), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode booking url: %w", err)
	}
	return png, nil
}

// Handler serves the booking QR code for the admin dashboard.
type Handler struct {
	gen    *Generator
	logger *logging.Logger
}

// NewHandler creates a QR HTTP handler.
func NewHandler(gen *Generator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{gen: gen, logger: logger}
}

// Get handles GET /admin/api/qr-code?size=512, responding with a PNG.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	size := defaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}

	png, err := h.gen.PNG(size)
	if err != nil {
		h.logger.Error("qr code generation failed", "error", err)
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="clinic-booking-qr.png"`)
	w.Write(png)
}

package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phambaophuc/multiscale/internal/models"
)

const (
	DefaultCustomWidth  = 375
	DefaultCustomHeight = 812
)

// ResolvedSize is the output size shared by every image of a batch.
type ResolvedSize struct {
	models.Size
	Warnings []string
}

// ResolveSize computes the output pixel size for a profile at the given density.
// Custom axes that are not positive integers fall back to the defaults and are
// reported in Warnings instead of failing.
func ResolveSize(catalog Catalog, profile models.TargetProfile, density models.Density) (ResolvedSize, error) {
	if !density.Valid() {
		return ResolvedSize{}, fmt.Errorf("%w: got %d", ErrInvalidDensity, density)
	}

	if !profile.IsCustom() {
		base, ok := catalog.Lookup(profile.Device)
		if !ok {
			return ResolvedSize{}, fmt.Errorf("%w: %q", ErrUnknownProfile, profile.Device)
		}
		return ResolvedSize{Size: base.Scale(density)}, nil
	}

	var warnings []string
	width, ok := parseDimension(profile.CustomWidth, DefaultCustomWidth)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%v: width %q replaced by %d", ErrInvalidCustomSize, profile.CustomWidth, DefaultCustomWidth))
	}
	height, ok := parseDimension(profile.CustomHeight, DefaultCustomHeight)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%v: height %q replaced by %d", ErrInvalidCustomSize, profile.CustomHeight, DefaultCustomHeight))
	}

	base := models.Size{Width: width, Height: height}
	return ResolvedSize{Size: base.Scale(density), Warnings: warnings}, nil
}

// parseDimension reads the leading integer of value the way a browser's
// parseInt does: "390px" and "390.5" both give 390. Anything without leading
// digits, or not positive, yields fallback.
func parseDimension(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)

	sign := ""
	if strings.HasPrefix(value, "+") || strings.HasPrefix(value, "-") {
		sign, value = value[:1], value[1:]
	}

	end := strings.IndexFunc(value, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(value)
	}

	n, err := strconv.Atoi(sign + value[:end])
	if err != nil || n <= 0 {
		return fallback, false
	}
	return n, true
}

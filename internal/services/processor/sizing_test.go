package processor

import (
	"testing"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSize_NamedProfiles(t *testing.T) {
	for id, base := range DefaultCatalog {
		for _, d := range []models.Density{models.Density1x, models.Density2x, models.Density3x} {
			got, err := ResolveSize(DefaultCatalog, models.NamedProfile(id), d)
			require.NoError(t, err, id)
			assert.Equal(t, base.Width*int(d), got.Width, id)
			assert.Equal(t, base.Height*int(d), got.Height, id)
			assert.Empty(t, got.Warnings)
		}
	}
}

func TestResolveSize_iPhoneSE2x(t *testing.T) {
	got, err := ResolveSize(DefaultCatalog, models.NamedProfile("iPhoneSE"), models.Density2x)
	require.NoError(t, err)
	assert.Equal(t, models.Size{Width: 640, Height: 1136}, got.Size)
}

func TestResolveSize_Custom(t *testing.T) {
	tests := []struct {
		name     string
		width    string
		height   string
		density  models.Density
		expected models.Size
		warnings int
	}{
		{"valid", "100", "200", models.Density3x, models.Size{Width: 300, Height: 600}, 0},
		{"padded", " 100 ", "200", models.Density1x, models.Size{Width: 100, Height: 200}, 0},
		{"width not a number", "abc", "900", models.Density1x, models.Size{Width: 375, Height: 900}, 1},
		{"height empty", "400", "", models.Density2x, models.Size{Width: 800, Height: 1624}, 1},
		{"zero", "0", "10", models.Density1x, models.Size{Width: 375, Height: 10}, 1},
		{"negative", "-5", "-7", models.Density2x, models.Size{Width: 750, Height: 1624}, 2},
		{"fraction", "12.5", "30", models.Density1x, models.Size{Width: 12, Height: 30}, 0},
		{"unit suffix", "390px", "844.5", models.Density2x, models.Size{Width: 780, Height: 1688}, 0},
		{"explicit plus", "+20", "30", models.Density1x, models.Size{Width: 20, Height: 30}, 0},
		{"letters first", "px390", "30", models.Density1x, models.Size{Width: 375, Height: 30}, 1},
		{"sign only", "-", "30", models.Density1x, models.Size{Width: 375, Height: 30}, 1},
		{"overflow", "99999999999999999999", "30", models.Density1x, models.Size{Width: 375, Height: 30}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSize(DefaultCatalog, models.CustomProfile(tt.width, tt.height), tt.density)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Size)
			assert.Len(t, got.Warnings, tt.warnings)
		})
	}
}

func TestResolveSize_Errors(t *testing.T) {
	_, err := ResolveSize(DefaultCatalog, models.NamedProfile("Nokia3310"), models.Density1x)
	require.ErrorIs(t, err, ErrUnknownProfile)

	_, err = ResolveSize(DefaultCatalog, models.NamedProfile("iPhoneSE"), models.Density(4))
	require.ErrorIs(t, err, ErrInvalidDensity)

	_, err = ResolveSize(DefaultCatalog, models.CustomProfile("1", "1"), models.Density(0))
	require.ErrorIs(t, err, ErrInvalidDensity)
}

func TestCatalog_Devices(t *testing.T) {
	devices := DefaultCatalog.Devices(models.Density2x)
	require.Len(t, devices, 13)

	for i := 1; i < len(devices); i++ {
		assert.Less(t, devices[i-1].ID, devices[i].ID)
	}

	for _, d := range devices {
		if d.ID == "AndroidCompact" {
			assert.Equal(t, models.Size{Width: 412, Height: 917}, d.Base)
			assert.Equal(t, models.Size{Width: 824, Height: 1834}, d.Scaled)
		}
	}
}

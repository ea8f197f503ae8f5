package processor

import (
	"sort"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/samber/lo"
)

// Catalog maps a device identifier to its logical screen size.
type Catalog map[string]models.Size

// DefaultCatalog lists the supported devices in logical pixels.
var DefaultCatalog = Catalog{
	"AndroidCompact":       {Width: 412, Height: 917},
	"AndroidMedium":        {Width: 700, Height: 840},
	"iPhoneXSMax&11ProMax": {Width: 414, Height: 896},
	"iPhone16":             {Width: 393, Height: 852},
	"iPhone16Pro":          {Width: 402, Height: 874},
	"iPhone16ProMax":       {Width: 440, Height: 956},
	"iPhone16Plus":         {Width: 430, Height: 932},
	"iPhone14&15ProMax":    {Width: 430, Height: 932},
	"iPhone14&15Pro":       {Width: 393, Height: 852},
	"iPhone13&14":          {Width: 390, Height: 844},
	"iPhone14Plus":         {Width: 428, Height: 926},
	"iPhone13mini":         {Width: 375, Height: 812},
	"iPhoneSE":             {Width: 320, Height: 568},
}

func (c Catalog) Lookup(device string) (models.Size, bool) {
	size, ok := c[device]
	return size, ok
}

// Devices returns the catalog sorted by identifier with sizes scaled by d.
func (c Catalog) Devices(d models.Density) []models.Device {
	ids := lo.Keys(map[string]models.Size(c))
	sort.Strings(ids)

	return lo.Map(ids, func(id string, _ int) models.Device {
		return models.Device{ID: id, Base: c[id], Scaled: c[id].Scale(d)}
	})
}

package catalog

import (
	"slices"
	"sort"

	"resource-booking-backend/internal/model"
)

// DefaultIcon is shown for anything that has no known icon.
const DefaultIcon = "Box"

// icons is the closed set of icon names the client knows how to draw.
var icons = map[string]struct{}{
	"Monitor": {}, "Truck": {}, "Box": {}, "Wrench": {}, "Home": {}, "Users": {},
	"Briefcase": {}, "Zap": {}, "Coffee": {}, "Laptop": {}, "Printer": {}, "Car": {},
	"Bike": {}, "Anchor": {}, "Star": {}, "Heart": {}, "Layout": {}, "Smartphone": {},
	"Camera": {}, "Mic": {}, "Speaker": {}, "Wifi": {}, "Key": {}, "Layers": {},
	"Archive": {}, "PenTool": {}, "Flag": {}, "Projector": {}, "Cable": {}, "Usb": {},
}

// categoryDefaults apply when neither the asset nor the settings name an icon.
var categoryDefaults = map[string]string{
	"Room":      "Users",
	"Vehicle":   "Car",
	"Equipment": "Monitor",
	"Other":     "Box",
}

// Icons returns the registered icon names in alphabetical order.
func Icons() []string {
	names := make([]string, 0, len(icons))
	for name := range icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a registered icon.
func Known(name string) bool {
	_, ok := icons[name]
	return ok
}

// ResolveIcon picks the icon for an asset: its own icon, then the category icon
// from the settings, then the built-in category default. Unknown names are skipped.
func ResolveIcon(asset model.Asset, categoryIcons map[string]string) string {
	candidates := make([]string, 0, 3)
	if asset.Icon != nil {
		candidates = append(candidates, *asset.Icon)
	}
	candidates = append(candidates, categoryIcons[asset.Type], categoryDefaults[asset.Type])

	if i := slices.IndexFunc(candidates, Known); i >= 0 {
		return candidates[i]
	}
	return DefaultIcon
}

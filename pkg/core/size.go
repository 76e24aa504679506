package core

import "strings"

// Size is the physical size class of a note panel.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// AllSizes lists the size classes from smallest to largest.
var AllSizes = []Size{SizeSmall, SizeMedium, SizeLarge}

type sizeInfo struct {
	// panel size in meters
	width, height float64
	// rendered card size in display points, padding included
	pixelsW, pixelsH int
}

// Heights keep the aspect ratio of the rendered card so text is not stretched.
var sizeTable = map[Size]sizeInfo{
	SizeSmall:  {width: 0.3, height: 0.192, pixelsW: 282, pixelsH: 172},
	SizeMedium: {width: 0.5, height: 0.4, pixelsW: 332, pixelsH: 232},
	SizeLarge:  {width: 0.7, height: 0.56, pixelsW: 432, pixelsH: 312},
}

// ParseSize maps a stored or user supplied name to a Size.
// Unknown names fall back to SizeMedium.
func ParseSize(s string) Size {
	for _, z := range AllSizes {
		if strings.EqualFold(string(z), strings.TrimSpace(s)) {
			return z
		}
	}
	return SizeMedium
}

func (s Size) Valid() bool {
	_, ok := sizeTable[s]
	return ok
}

// Dimensions returns the panel width and height in meters.
func (s Size) Dimensions() (width, height float64) {
	info := sizeTable[s.orMedium()]
	return info.width, info.height
}

// Footprint returns the rendered card width and height in display points.
func (s Size) Footprint() (width, height int) {
	info := sizeTable[s.orMedium()]
	return info.pixelsW, info.pixelsH
}

func (s Size) orMedium() Size {
	if s.Valid() {
		return s
	}
	return SizeMedium
}

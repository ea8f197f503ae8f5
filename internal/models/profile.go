package models

import (
	"fmt"
	"strconv"
)

type ProfileKind int

const (
	ProfileNamed ProfileKind = iota
	ProfileCustom
)

// CustomDevice is the selection value that switches a request to a custom size.
const CustomDevice = "custom"

// TargetProfile is either a named device from the catalog or a custom size.
// Custom sizes keep the raw user input; parsing happens when the size is resolved.
type TargetProfile struct {
	Kind         ProfileKind
	Device       string
	CustomWidth  string
	CustomHeight string
}

func NamedProfile(device string) TargetProfile {
	return TargetProfile{Kind: ProfileNamed, Device: device}
}

func CustomProfile(width, height string) TargetProfile {
	return TargetProfile{Kind: ProfileCustom, CustomWidth: width, CustomHeight: height}
}

func (p TargetProfile) IsCustom() bool {
	return p.Kind == ProfileCustom
}

func (p TargetProfile) String() string {
	if p.IsCustom() {
		return fmt.Sprintf("custom(%s,%s)", p.CustomWidth, p.CustomHeight)
	}
	return p.Device
}

// Density is the device pixel ratio applied to logical dimensions.
type Density int

const (
	Density1x Density = 1
	Density2x Density = 2
	Density3x Density = 3
)

func (d Density) Valid() bool {
	return d >= Density1x && d <= Density3x
}

func (d Density) String() string {
	return strconv.Itoa(int(d)) + "x"
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) Scale(d Density) Size {
	return Size{Width: s.Width * int(d), Height: s.Height * int(d)}
}

// Device is a catalog entry as exposed to API clients.
type Device struct {
	ID     string `json:"id"`
	Base   Size   `json:"base"`
	Scaled Size   `json:"scaled"`
}

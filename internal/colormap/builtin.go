package colormap

import (
	"image/color"
	"sort"
	"strings"
)

var (
	black   = color.RGBA{0, 0, 0, 255}
	white   = color.RGBA{255, 255, 255, 255}
	red     = color.RGBA{255, 0, 0, 255}
	green   = color.RGBA{0, 255, 0, 255}
	blue    = color.RGBA{0, 0, 255, 255}
	cyan    = color.RGBA{0, 255, 255, 255}
	magenta = color.RGBA{255, 0, 255, 255}
	yellow  = color.RGBA{255, 255, 0, 255}
	orange  = color.RGBA{255, 200, 0, 255}
)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

var (
	Jet      = mustNew("Jet", []float64{0, 0.25, 0.5, 0.75, 1}, blue, cyan, yellow, red, rgb(128, 0, 0))
	Gray     = mustNew("Gray", []float64{0, 1}, black, white)
	Hot      = mustNew("Hot", []float64{0, 0.3333333, 0.66666666, 1}, black, red, yellow, white)
	Autumn   = mustNew("Autumn", []float64{0, 1}, red, yellow)
	Bone     = mustNew("Bone", []float64{0, 0.375, 0.75, 1}, rgb(0, 0, 1), rgb(81, 81, 113), rgb(166, 198, 198), white)
	Cool     = mustNew("Cool", []float64{0, 1}, cyan, magenta)
	Copper   = mustNew("Copper", []float64{0, 0.7869, 0.8125, 1}, black, rgb(253, 158, 100), rgb(255, 161, 103), rgb(255, 199, 127))
	Spring   = mustNew("Spring", []float64{0, 1}, magenta, yellow)
	Summer   = mustNew("Summer", []float64{0, 1}, rgb(0, 128, 102), rgb(255, 255, 102))
	Winter   = mustNew("Winter", []float64{0, 1}, blue, rgb(0, 255, 128))
	Sidescan = mustNew("Sidescan", []float64{0, 1}, yellow, white)

	Pink = mustNew("Pink",
		[]float64{0, 1 / 64.0, 2 / 64.0, 3 / 64.0, 24 / 64.0, 48 / 64.0, 1},
		rgb(30, 0, 0), rgb(50, 26, 26), rgb(64, 37, 37), rgb(75, 45, 45), rgb(194, 126, 126), rgb(232, 232, 180), white)

	// Rainbow starts at 0.1; lower values take the first colour.
	Rainbow = mustNew("Rainbow",
		[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 1},
		rgb(86, 0, 86), magenta, blue, cyan, green, yellow, orange, red, rgb(86, 0, 0))

	AllColors      = mustNew("AllColors", []float64{0, 0.3333333, 0.66666666, 1}, black, blue, yellow, white)
	RedGreenBlue   = mustNew("RedGreenBlue", []float64{0, 0.5, 1}, red, green, blue)
	BlueToRed      = mustNew("BlueToRed", []float64{0, 1}, blue, red)
	White          = mustNew("White", []float64{0, 1}, white, white)
	GreenRadar     = mustNew("GreenRadar", []float64{0, 1}, black, green)
	GreenToRed     = mustNew("GreenToRed", []float64{0, 0.5, 1}, green, yellow, red)
	RedYellowGreen = mustNew("RedYellowGreen", []float64{0, 0.5, 1}, red, yellow, green)
	StoreData      = mustNew("StoreData", []float64{0, 0.333333, 0.666666, 1}, black, red, yellow, white)
)

var builtin = map[string]*Interpolated{}

func init() {
	for _, cm := range []*Interpolated{
		Jet, Gray, Hot, Autumn, Bone, Cool, Copper, Spring, Summer, Winter, Sidescan,
		Pink, Rainbow, AllColors, RedGreenBlue, BlueToRed, White, GreenRadar,
		GreenToRed, RedYellowGreen, StoreData,
	} {
		builtin[strings.ToLower(cm.Name())] = cm
	}
	builtin["grayscale"] = Gray
}

// Lookup returns the built-in colormap called name, ignoring case.
func Lookup(name string) (Colormap, bool) {
	cm, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return cm, true
}

// ByName is Lookup falling back to Jet for unknown names.
func ByName(name string) Colormap {
	if cm, ok := Lookup(name); ok {
		return cm
	}
	return Jet
}

// Names returns the names of the built-in colormaps, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for key, cm := range builtin {
		if key == "grayscale" {
			continue
		}
		names = append(names, cm.Name())
	}
	sort.Strings(names)
	return names
}

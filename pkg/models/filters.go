package models

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// Category is one of the fixed browse categories
type Category string

const (
	CategoryNature       Category = "Nature"
	CategoryAnimals      Category = "Animals"
	CategoryCities       Category = "Cities"
	CategoryCars         Category = "Cars"
	CategorySpace        Category = "Space"
	CategoryArt          Category = "Art"
	CategoryFood         Category = "Food"
	CategoryTravel       Category = "Travel"
	CategoryFashion      Category = "Fashion"
	CategoryArchitecture Category = "Architecture"
)

// Categories lists the categories in display order
var Categories = []Category{
	CategoryNature,
	CategoryAnimals,
	CategoryCities,
	CategoryCars,
	CategorySpace,
	CategoryArt,
	CategoryFood,
	CategoryTravel,
	CategoryFashion,
	CategoryArchitecture,
}

// maxSuggestionDistance bounds how far a typo may be from a category label
const maxSuggestionDistance = 3

// ParseCategory matches label case-insensitively and returns the canonical category
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories {
		if strings.EqualFold(string(c), label) {
			return c, true
		}
	}
	return "", false
}

// SuggestCategory returns the category closest to label by edit distance
func SuggestCategory(label string) (Category, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", false
	}

	best := Category("")
	bestDistance := maxSuggestionDistance + 1
	for _, c := range Categories {
		d := levenshtein.Distance(label, strings.ToLower(string(c)))
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, best != ""
}

// Order is the requested result ordering
type Order string

const (
	OrderPopular Order = "popular"
	OrderLatest  Order = "latest"
)

// Orientation restricts results by aspect
type Orientation string

const (
	OrientationAll       Orientation = "all"
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquare    Orientation = "square"
)

// Color restricts results by dominant color
type Color string

const (
	ColorAll       Color = "all"
	ColorRed       Color = "red"
	ColorOrange    Color = "orange"
	ColorYellow    Color = "yellow"
	ColorGreen     Color = "green"
	ColorTurquoise Color = "turquoise"
	ColorBlue      Color = "blue"
	ColorViolet    Color = "violet"
	ColorPink      Color = "pink"
	ColorBrown     Color = "brown"
	ColorBlack     Color = "black"
	ColorGray      Color = "gray"
	ColorWhite     Color = "white"
)

// Option describes a selectable filter value for presentation
type Option struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Swatch string `json:"swatch,omitempty"`
}

var OrderOptions = []Option{
	{Key: string(OrderPopular), Label: "Popular"},
	{Key: string(OrderLatest), Label: "Latest"},
}

var OrientationOptions = []Option{
	{Key: string(OrientationAll), Label: "All"},
	{Key: string(OrientationLandscape), Label: "Landscape"},
	{Key: string(OrientationPortrait), Label: "Portrait"},
	{Key: string(OrientationSquare), Label: "Square"},
}

var ColorOptions = []Option{
	{Key: string(ColorAll), Label: "All Colors", Swatch: "transparent"},
	{Key: string(ColorRed), Label: "Red", Swatch: "#ff0000"},
	{Key: string(ColorOrange), Label: "Orange", Swatch: "#ffa500"},
	{Key: string(ColorYellow), Label: "Yellow", Swatch: "#ffff00"},
	{Key: string(ColorGreen), Label: "Green", Swatch: "#00ff00"},
	{Key: string(ColorTurquoise), Label: "Turquoise", Swatch: "#40e0d0"},
	{Key: string(ColorBlue), Label: "Blue", Swatch: "#0000ff"},
	{Key: string(ColorViolet), Label: "Violet", Swatch: "#8a2be2"},
	{Key: string(ColorPink), Label: "Pink", Swatch: "#ffc0cb"},
	{Key: string(ColorBrown), Label: "Brown", Swatch: "#a52a2a"},
	{Key: string(ColorBlack), Label: "Black", Swatch: "#000000"},
	{Key: string(ColorGray), Label: "Gray", Swatch: "#808080"},
	{Key: string(ColorWhite), Label: "White", Swatch: "#ffffff"},
}

func findOption(options []Option, key string) (Option, bool) {
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

func (o Order) Valid() bool {
	_, ok := findOption(OrderOptions, string(o))
	return ok
}

func (o Order) Label() string {
	opt, _ := findOption(OrderOptions, string(o))
	return opt.Label
}

func (o Orientation) Valid() bool {
	_, ok := findOption(OrientationOptions, string(o))
	return ok
}

func (o Orientation) Label() string {
	opt, _ := findOption(OrientationOptions, string(o))
	return opt.Label
}

func (c Color) Valid() bool {
	_, ok := findOption(ColorOptions, string(c))
	return ok
}

func (c Color) Label() string {
	opt, _ := findOption(ColorOptions, string(c))
	return opt.Label
}

// Swatch returns the display color for the chip of an active color filter
func (c Color) Swatch() string {
	opt, _ := findOption(ColorOptions, string(c))
	return opt.Swatch
}

// FilterField names one dimension of a FilterSet
type FilterField string

const (
	FieldOrder       FilterField = "order"
	FieldOrientation FilterField = "orientation"
	FieldColor       FilterField = "color"
)

// ParseFilterField validates a field name coming from a client
func ParseFilterField(s string) (FilterField, bool) {
	switch f := FilterField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldOrder, FieldOrientation, FieldColor:
		return f, true
	default:
		return "", false
	}
}

// FilterSet is the set of filters applied to photo requests
type FilterSet struct {
	Order       Order       `json:"order"`
	Orientation Orientation `json:"orientation"`
	Color       Color       `json:"color"`
}

// DefaultFilterSet returns Popular / All / All
func DefaultFilterSet() FilterSet {
	return FilterSet{
		Order:       OrderPopular,
		Orientation: OrientationAll,
		Color:       ColorAll,
	}
}

// IsDefault reports whether every field holds its default value
func (f FilterSet) IsDefault() bool {
	return f == DefaultFilterSet()
}

// WithDefault returns a copy with field restored to its default
func (f FilterSet) WithDefault(field FilterField) FilterSet {
	def := DefaultFilterSet()
	switch field {
	case FieldOrder:
		f.Order = def.Order
	case FieldOrientation:
		f.Orientation = def.Orientation
	case FieldColor:
		f.Color = def.Color
	}
	return f
}

// FilterPatch is a partial filter change; nil fields are left untouched
type FilterPatch struct {
	Order       *Order       `json:"order,omitempty"`
	Orientation *Orientation `json:"orientation,omitempty"`
	Color       *Color       `json:"color,omitempty"`
}

// Apply returns f with the non-nil fields of the patch applied
func (p FilterPatch) Apply(f FilterSet) FilterSet {
	if p.Order != nil {
		f.Order = *p.Order
	}
	if p.Orientation != nil {
		f.Orientation = *p.Orientation
	}
	if p.Color != nil {
		f.Color = *p.Color
	}
	return f
}

// Invalid returns the first field carrying a value outside its enumeration
func (p FilterPatch) Invalid() (FilterField, bool) {
	if p.Order != nil && !p.Order.Valid() {
		return FieldOrder, true
	}
	if p.Orientation != nil && !p.Orientation.Valid() {
		return FieldOrientation, true
	}
	if p.Color != nil && !p.Color.Valid() {
		return FieldColor, true
	}
	return "", false
}

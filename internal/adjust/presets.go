package adjust

// Filter identifiers with special meaning for the document.
const (
	FilterOriginal = "original"
	FilterCustom   = "custom"
)

// Preset is a named, fixed adjustment vector selectable as a single action.
type Preset struct {
	ID     string
	Name   string
	Vector Vector
}

// presets is the fixed table, in display order. The first entry is the
// identity filter.
var presets = []Preset{
	{ID: FilterOriginal, Name: "Original", Vector: Vector{}},
	{ID: "bw", Name: "Black & White", Vector: Vector{Brightness: 0, Contrast: 10, Saturation: -100, Exposure: 0}},
	{ID: "noir", Name: "Noir", Vector: Vector{Brightness: -10, Contrast: 40, Saturation: -100, Exposure: 0}},
	{ID: "vivid", Name: "Vivid", Vector: Vector{Brightness: 5, Contrast: 20, Saturation: 30, Exposure: 0}},
	{ID: "warm", Name: "Warm", Vector: Vector{Brightness: 8, Contrast: 5, Saturation: 12, Exposure: 0}},
	{ID: "cool", Name: "Cool", Vector: Vector{Brightness: 0, Contrast: 8, Saturation: -15, Exposure: 0}},
	{ID: "fade", Name: "Fade", Vector: Vector{Brightness: 12, Contrast: -20, Saturation: -25, Exposure: 0}},
	{ID: "sunny", Name: "Sunny", Vector: Vector{Brightness: 10, Contrast: 5, Saturation: 8, Exposure: 15}},
	{ID: "matte", Name: "Matte", Vector: Vector{Brightness: 5, Contrast: -10, Saturation: -15, Exposure: -5}},
}

// Presets returns a copy of the preset table in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByID looks up a preset by identifier.
func PresetByID(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

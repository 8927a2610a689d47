package scene

// Wavelength is one entry of the fixed visible-spectrum palette: a display
// color and the refractive index of the prism medium at that wavelength.
type Wavelength struct {
	Name            string
	Color           string // hex display color for renderers
	RefractiveIndex float64
}

// Spectrum is the process-wide wavelength palette, in visible-spectrum order.
// The refractive index increases strictly from red to violet, which is what
// spreads white light into a fan inside a prism.
var Spectrum = [7]Wavelength{
	{Name: "red", Color: "#ff0000", RefractiveIndex: 1.331},
	{Name: "orange", Color: "#ff7f00", RefractiveIndex: 1.342},
	{Name: "yellow", Color: "#ffff00", RefractiveIndex: 1.351},
	{Name: "green", Color: "#00ff00", RefractiveIndex: 1.362},
	{Name: "blue", Color: "#0000ff", RefractiveIndex: 1.372},
	{Name: "indigo", Color: "#4b0082", RefractiveIndex: 1.382},
	{Name: "violet", Color: "#8b00ff", RefractiveIndex: 1.393},
}

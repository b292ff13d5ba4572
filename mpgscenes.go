// Package mpgscenes renders a three-scene story about 2017 car fuel economy.
//
// Usage:
//
//	import "github.com/spektr-org/mpgscenes/scene"
//
//	ds, err := helpers.LoadCars("cars2017.csv")
//	ctrl := scene.NewController(ds, scene.WithComputedExtremes(true))
//	surface, err := ctrl.Show("scene3")
//	err = render.SVG(os.Stdout, surface)
//
// Scenes draw onto a retained Surface; the render package turns a Surface
// into SVG, an HTML page or a JSON model. The engine package does the
// grouping and averaging and never touches drawing state.
package mpgscenes

package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spektr-org/mpgscenes/engine"
)

// ============================================================================
// SCENE REGISTRY & CONTROLLER
// ============================================================================
// The Controller is the only thing callers need: it maps a scene name to a
// Scene, mounts it on a fresh Stage and hands back the drawn Surface. The
// dataset is shared read-only, so Show is safe for concurrent use.
// ============================================================================

// ErrUnknownScene is returned when a scene name is not registered.
var ErrUnknownScene = errors.New("unknown scene")

// Scene draws one complete chart onto a Surface.
type Scene interface {
	Name() string
	Title() string
	Draw(s *Surface, ds *engine.Dataset)
}

// Names lists the registered scenes in presentation order.
var Names = []string{"scene1", "scene2", "scene3"}

// DefaultScene is shown when none is requested.
const DefaultScene = "scene1"

// Info describes a registered scene.
type Info struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Controller selects and renders scenes over one dataset.
type Controller struct {
	ds     *engine.Dataset
	scenes map[string]Scene
	logger *slog.Logger
	obs    Observer
}

// NewController registers the three scenes over ds.
func NewController(ds *engine.Dataset, opts ...Option) *Controller {
	cfg := applyOptions(opts)
	c := &Controller{
		ds:     ds,
		scenes: make(map[string]Scene, len(Names)),
		logger: cfg.Logger.With("component", "scene"),
		obs:    cfg.Observer,
	}
	for _, sc := range []Scene{NewHighwayScene(opts...), NewCityScene(opts...), NewComparisonScene()} {
		c.scenes[sc.Name()] = sc
	}
	return c
}

// Lookup returns the scene registered under name.
func (c *Controller) Lookup(name string) (Scene, error) {
	sc, ok := c.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return sc, nil
}

// Show mounts the named scene on a new Stage and returns its surface.
func (c *Controller) Show(name string) (*Surface, error) {
	sc, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	st := NewStage()
	st.Mount(sc, c.ds)
	elapsed := time.Since(start)

	if c.obs != nil {
		c.obs(name, elapsed)
	}
	c.logger.Debug("scene drawn",
		"scene", name,
		"records", c.ds.Len(),
		"elements", st.Surface().Len(),
		"elapsed", elapsed,
	)
	return st.Surface(), nil
}

// Scenes lists the registered scenes in presentation order.
func (c *Controller) Scenes() []Info {
	out := make([]Info, 0, len(Names))
	for _, n := range Names {
		if sc, ok := c.scenes[n]; ok {
			out = append(out, Info{Name: sc.Name(), Title: sc.Title()})
		}
	}
	return out
}

// Dataset returns the dataset shared by every scene.
func (c *Controller) Dataset() *engine.Dataset { return c.ds }

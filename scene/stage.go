package scene

import "github.com/spektr-org/mpgscenes/engine"

// Stage owns one Surface and the scene currently drawn on it.
//
// Mount always unmounts first, so a Stage holds exactly one scene's
// elements at a time and mounting the same scene twice yields the same
// tree.
type Stage struct {
	surface *Surface
	current Scene
}

// NewStage creates a stage with an empty canvas-sized surface.
func NewStage() *Stage {
	return &Stage{surface: NewSurface(CanvasWidth, CanvasHeight)}
}

// Mount removes whatever is drawn and draws sc over ds.
func (st *Stage) Mount(sc Scene, ds *engine.Dataset) {
	st.Unmount()
	sc.Draw(st.surface, ds)
	st.current = sc
}

// Unmount removes every element from the surface.
func (st *Stage) Unmount() {
	st.surface.Clear()
	st.current = nil
}

// Mounted returns the scene on stage, or nil.
func (st *Stage) Mounted() Scene { return st.current }

// Surface returns the stage's surface.
func (st *Stage) Surface() *Surface { return st.surface }

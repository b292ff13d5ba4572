package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/spektr-org/mpgscenes/scene"
)

//go:embed page.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html"))

// PageData is what the HTML page needs besides the drawn surface.
type PageData struct {
	Title    string
	Active   string
	Scenes   []scene.Info
	BasePath string // prefix for the scene links, "/scenes" by default
	Surface  *scene.Surface
}

type pageView struct {
	Title          string
	Active         string
	Scenes         []scene.Info
	BasePath       string
	SVG            template.HTML
	TooltipOffsetY int
}

// Page writes a complete HTML document embedding the surface as inline SVG.
func Page(w io.Writer, d PageData) error {
	var buf bytes.Buffer
	if err := SVG(&buf, d.Surface); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	inline := buf.Bytes()
	// Drop the XML declaration; it has no meaning inside HTML.
	if i := bytes.Index(inline, []byte("<svg")); i > 0 {
		inline = inline[i:]
	}

	base := d.BasePath
	if base == "" {
		base = "/scenes"
	}
	view := pageView{
		Title:          d.Title,
		Active:         d.Active,
		Scenes:         d.Scenes,
		BasePath:       base,
		SVG:            template.HTML(inline),
		TooltipOffsetY: scene.TooltipOffsetY,
	}
	if err := pageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// JSON writes the element model of s.
func JSON(w io.Writer, s *scene.Surface) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

package ui

import (
	"math"
	"sort"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/scene"
)

// CellAspect is the height of a terminal cell divided by its width.
const CellAspect = 2.0

// Glyphs used on the canvas.
const (
	glyphEmpty    = ' '
	glyphStar     = '˙'
	glyphRing     = '·'
	glyphSun      = '☉'
	glyphBody     = '•'
	glyphSelected = '◉'
	glyphMoon     = '∘'
	glyphDisc     = '●'
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellStar
	cellRing
	cellBody
	cellSelected
	cellLabel
)

// cell is one character of the canvas.
type cell struct {
	ch    rune
	kind  cellKind
	color registry.Color
}

// placed records where a mesh landed on the canvas.
type placed struct {
	label    string
	col, row int
	depth    float64
}

// raster is a rasterized frame.
type raster struct {
	w, h   int
	cells  [][]cell
	placed []placed
}

// rasterOptions controls what the rasterizer draws.
type rasterOptions struct {
	selected   string // Label of the highlighted mesh
	allLabels  bool
	satellite  string // Label drawn with the satellite glyph
	central    string // Label drawn with the sun glyph
	ringPoints int
}

// projector is the part of the perspective camera the rasterizer needs.
type projector interface {
	Project(p astro.Vec3) scene.Projection
	WorldPerNDC(depth float64) float64
}

func newRaster(w, h int) *raster {
	r := &raster{w: w, h: h, cells: make([][]cell, h)}
	for y := range r.cells {
		r.cells[y] = make([]cell, w)
		for x := range r.cells[y] {
			r.cells[y][x] = cell{ch: glyphEmpty}
		}
	}
	return r
}

// toCell maps normalized device coordinates to a cell. It is the inverse of
// cellCenter up to rounding.
func toCell(ndcX, ndcY float64, w, h int) (col, row int, ok bool) {
	col = int(math.Floor((ndcX + 1) / 2 * float64(w)))
	row = int(math.Floor((1 - ndcY) / 2 * float64(h)))
	if col == w && ndcX <= 1 {
		col = w - 1
	}
	if row == h && ndcY >= -1 {
		row = h - 1
	}
	return col, row, col >= 0 && col < w && row >= 0 && row < h
}

// rasterize draws a rendered frame into a w×h character grid. Stars go
// first, then orbit rings, then meshes from far to near so that nearer
// bodies cover farther ones.
func rasterize(frame scene.Frame, cam projector, w, h int, opts rasterOptions) *raster {
	r := newRaster(w, h)
	if w <= 0 || h <= 0 || cam == nil {
		return r
	}

	for _, s := range frame.Stars {
		p := cam.Project(s)
		if !p.Visible {
			continue
		}
		if col, row, ok := toCell(p.X, p.Y, w, h); ok {
			r.set(col, row, cell{ch: glyphStar, kind: cellStar}, false)
		}
	}

	steps := opts.ringPoints
	if steps <= 0 {
		steps = 240
	}
	for _, ring := range frame.Rings {
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			pt := astro.Vec3{X: ring.Radius * math.Cos(theta), Z: ring.Radius * math.Sin(theta)}
			p := cam.Project(pt)
			if !p.Visible {
				continue
			}
			if col, row, ok := toCell(p.X, p.Y, w, h); ok {
				r.set(col, row, cell{ch: glyphRing, kind: cellRing, color: ring.Color}, true)
			}
		}
	}

	type drawable struct {
		mesh scene.Mesh
		proj scene.Projection
	}
	var meshes []drawable
	for _, m := range frame.Meshes {
		p := cam.Project(m.Position)
		if !p.Visible {
			continue
		}
		meshes = append(meshes, drawable{mesh: m, proj: p})
	}
	sort.SliceStable(meshes, func(i, j int) bool {
		return meshes[i].proj.Depth > meshes[j].proj.Depth
	})

	for _, d := range meshes {
		col, row, ok := toCell(d.proj.X, d.proj.Y, w, h)
		if !ok {
			continue
		}
		selected := d.mesh.Label != "" && d.mesh.Label == opts.selected

		// Radius of the body in rows; discs wider than a cell are filled.
		rows := d.mesh.Size / cam.WorldPerNDC(d.proj.Depth) * float64(h) / 2
		if rows >= 1 {
			r.disc(col, row, rows, d.mesh.Color, selected)
		}

		ch := glyphBody
		switch {
		case selected:
			ch = glyphSelected
		case d.mesh.Label == opts.central:
			ch = glyphSun
		case d.mesh.Label == opts.satellite:
			ch = glyphMoon
		}
		kind := cellBody
		if selected {
			kind = cellSelected
		}
		r.cells[row][col] = cell{ch: ch, kind: kind, color: d.mesh.Color}
		r.placed = append(r.placed, placed{label: d.mesh.Label, col: col, row: row, depth: d.proj.Depth})
	}

	for _, p := range r.placed {
		if p.label == "" {
			continue
		}
		if p.label == opts.selected {
			r.label(p.col+2, p.row, "◄ "+p.label)
		} else if opts.allLabels && p.label != opts.satellite {
			r.label(p.col+2, p.row, p.label)
		}
	}
	return r
}

// set writes c at (col, row). Unless over is true it only fills empty cells.
func (r *raster) set(col, row int, c cell, over bool) {
	cur := r.cells[row][col]
	if cur.kind == cellEmpty || (over && cur.kind == cellStar) {
		r.cells[row][col] = c
	}
}

// disc fills an ellipse of the given radius in rows, stretched horizontally
// by the cell aspect.
func (r *raster) disc(col, row int, rows float64, color registry.Color, selected bool) {
	kind := cellBody
	if selected {
		kind = cellSelected
	}
	cols := rows * CellAspect
	for y := int(math.Floor(-rows)); y <= int(math.Ceil(rows)); y++ {
		for x := int(math.Floor(-cols)); x <= int(math.Ceil(cols)); x++ {
			fx, fy := float64(x)/cols, float64(y)/rows
			if fx*fx+fy*fy > 1 {
				continue
			}
			cx, cy := col+x, row+y
			if cx < 0 || cx >= r.w || cy < 0 || cy >= r.h {
				continue
			}
			r.cells[cy][cx] = cell{ch: glyphDisc, kind: kind, color: color}
		}
	}
}

// label writes text starting at (col, row) over empty, star and ring cells.
func (r *raster) label(col, row int, text string) {
	if row < 0 || row >= r.h {
		return
	}
	x := col
	for _, ch := range text {
		if x >= r.w {
			return
		}
		if x >= 0 {
			switch r.cells[row][x].kind {
			case cellEmpty, cellStar, cellRing:
				r.cells[row][x] = cell{ch: ch, kind: cellLabel}
			}
		}
		x++
	}
}

// position returns where the labelled mesh was drawn.
func (r *raster) position(label string) (col, row int, ok bool) {
	for _, p := range r.placed {
		if p.label == label {
			return p.col, p.row, true
		}
	}
	return 0, 0, false
}

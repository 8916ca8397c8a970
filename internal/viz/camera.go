package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/cloth"
	"github.com/san-kum/softbody/internal/collide"
)

// Camera projects world points onto a canvas. The view looks down -z from
// Distance units in front of Target.
type Camera struct {
	Target           mgl64.Vec3
	Distance, Near   float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.2) }

// Fit centres the camera on the bounding box of pts and zooms so the box
// fills most of the view.
func (c *Camera) Fit(pts []mgl64.Vec3) {
	if len(pts) == 0 {
		return
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	c.Target = lo.Add(hi).Mul(0.5)
	half := hi.Sub(lo).Mul(0.5)
	extent := math.Max(math.Max(half[0], half[1]), math.Max(half[2], 0.5))
	c.Zoom = 1.2 / extent
}

func (c *Camera) rotate(p mgl64.Vec3) mgl64.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p[0], p[1] = p[0]*cz-p[1]*sz, p[0]*sz+p[1]*cz
	return p
}

// Project returns dot coordinates on a sw x sh canvas, the depth and
// whether the point lands on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p.Sub(c.Target)).Mul(c.Zoom)
	if rot[2] >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot[2])
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot[0]*scale*pScale) + sw/2
	sy := int(-rot[1]*scale*pScale) + sh/2
	return sx, sy, rot[2], sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render draws the wireframe back to front.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// AddCloth adds the outline of every triangle in world space, so shared
// edges are drawn twice.
func (w *Wireframe) AddCloth(c *cloth.Cloth) {
	verts := ClothVertices(c)
	for _, f := range c.Faces() {
		w.AddEdge(verts[f[0]], verts[f[1]])
		w.AddEdge(verts[f[1]], verts[f[2]])
		w.AddEdge(verts[f[2]], verts[f[0]])
	}
}

// ClothVertices returns the mesh vertices with the cloth transform applied.
func ClothVertices(c *cloth.Cloth) []mgl64.Vec3 {
	t := c.Transform()
	local := c.Vertices()
	world := make([]mgl64.Vec3, len(local))
	for i, v := range local {
		world[i] = mgl64.TransformCoordinate(v, t)
	}
	return world
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// AddBox adds the twelve edges of an oriented box.
func (w *Wireframe) AddBox(b collide.Box) {
	var corners [8]mgl64.Vec3
	for i := range corners {
		local := mgl64.Vec3{
			signBit(i, 0) * b.HalfSize[0],
			signBit(i, 1) * b.HalfSize[1],
			signBit(i, 2) * b.HalfSize[2],
		}
		corners[i] = mgl64.TransformCoordinate(local, b.Transform)
	}
	for _, e := range boxEdges {
		w.AddEdge(corners[e[0]], corners[e[1]])
	}
}

func signBit(i, bit int) float64 {
	if i&(1<<bit) != 0 {
		return -1
	}
	return 1
}

// AddGround adds a square grid on the plane y = height.
func (w *Wireframe) AddGround(centre mgl64.Vec3, height, half float64, lines int) {
	if lines < 2 {
		lines = 2
	}
	step := 2 * half / float64(lines-1)
	for i := 0; i < lines; i++ {
		o := -half + float64(i)*step
		w.AddEdge(mgl64.Vec3{centre[0] - half, height, centre[2] + o}, mgl64.Vec3{centre[0] + half, height, centre[2] + o})
		w.AddEdge(mgl64.Vec3{centre[0] + o, height, centre[2] - half}, mgl64.Vec3{centre[0] + o, height, centre[2] + half})
	}
}

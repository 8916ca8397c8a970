package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/collide"
	"github.com/san-kum/softbody/internal/scene"
)

func (a *App) drawSim() {
	rl.BeginMode3D(a.Camera)
	a.drawGrid(20, 0.5)

	switch s := a.Scenario.(type) {
	case *scene.Cloth:
		a.renderCloth(s)
	case *scene.Fountain:
		a.renderFountain(s)
	case *scene.Bounce:
		for i, p := range s.Particles() {
			rl.DrawSphere(vec(p.Position()), float32(s.Radii()[i]), speedColor(p.Velocity().Len()))
		}
	case *scene.Stack:
		for _, b := range s.Boxes() {
			renderBox(b)
		}
		ball := s.Ball()
		rl.DrawSphere(vec(ball.Position()), float32(ball.Radius), ColSelect)
	case *scene.Pendulum:
		prev := s.Anchor()
		rl.DrawSphere(vec(prev), 0.1, ColText)
		for _, b := range s.Particles() {
			rl.DrawLine3D(vec(prev), vec(b.Position()), ColAccent)
			rl.DrawSphere(vec(b.Position()), 0.15, speedColor(b.Velocity().Len()))
			prev = b.Position()
		}
	default:
		for _, p := range a.Scenario.Particles() {
			rl.DrawSphere(vec(p.Position()), 0.05, ColAccent)
		}
	}

	rl.EndMode3D()
}

func (a *App) drawGrid(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, 0, -half), rl.NewVector3(pos, 0, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, 0, pos), rl.NewVector3(half, 0, pos), ColGrid)
	}
}

// renderCloth draws both windings of each face so the sheet is visible
// from either side, then the edges on top.
func (a *App) renderCloth(s *scene.Cloth) {
	sheet := s.Sheet()
	t := sheet.Transform()
	local := sheet.Vertices()
	world := make([]rl.Vector3, len(local))
	for i, v := range local {
		world[i] = vec(mgl64.TransformCoordinate(v, t))
	}

	normals := sheet.Normals()
	for _, f := range sheet.Faces() {
		p1, p2, p3 := world[f[0]], world[f[1]], world[f[2]]
		shade := faceShade(normals[f[0]].Add(normals[f[1]]).Add(normals[f[2]]))
		rl.DrawTriangle3D(p1, p2, p3, shade)
		rl.DrawTriangle3D(p1, p3, p2, shade)
		rl.DrawLine3D(p1, p2, ColGrid)
		rl.DrawLine3D(p2, p3, ColGrid)
		rl.DrawLine3D(p3, p1, ColGrid)
	}

	if a.ShowNormals {
		for i, n := range normals {
			rl.DrawLine3D(world[i], rl.Vector3Add(world[i], vec(n.Mul(0.1))), rl.Red)
		}
	}
}

func (a *App) renderFountain(s *scene.Fountain) {
	e := s.Emitter()
	radii := e.Radii()
	for i, p := range e.Positions() {
		rl.DrawSphereEx(vec(p), float32(radii[i]), 6, 6, ColAccent)
	}
	rl.DrawCubeWires(vec(e.Config().Position), 0.2, 0.2, 0.2, ColText)
}

func renderBox(b collide.Box) {
	c := boxCorners(b)
	for _, e := range boxEdges {
		rl.DrawLine3D(vec(c[e[0]]), vec(c[e[1]]), ColSelect)
	}
}

package scene

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/motion"
	"vinyl-scene/internal/ownership"
)

const (
	platterRadius  = 2.4
	platterHeight  = 0.25
	baseHalfExtent = 3.2
	baseHeight     = 0.8

	recordHeight = 0.06
	labelRadius  = 0.6
	labelHeight  = 0.07

	nubRadius = 0.08
	nubHeight = 0.14

	tonearmPivotX = 2.6
	tonearmLength = 2.3
	tonearmRadius = 0.05

	floorExtent = 14
	floorStep   = 1
)

var (
	baseColor    = rl.NewColor(40, 38, 44, 255)
	platterColor = rl.NewColor(22, 22, 24, 255)
	recordColor  = rl.NewColor(14, 14, 16, 255)
	nubColor     = rl.NewColor(180, 180, 188, 255)
	tonearmColor = rl.NewColor(150, 148, 155, 255)
	floorMinor   = rl.NewColor(128, 128, 128, 40)
	floorMajor   = rl.NewColor(160, 160, 160, 90)
)

// deck holds the turntable's GPU resources. Meshes are created lazily on
// first draw so allocation happens after the window/OpenGL context exists.
type deck struct {
	loaded bool

	baseMesh    rl.Mesh
	platterMesh rl.Mesh
	recordMesh  rl.Mesh
	labelMesh   rl.Mesh
	nubMesh     rl.Mesh

	baseMtl    rl.Material
	platterMtl rl.Material
	recordMtl  rl.Material
	labelMtl   rl.Material
	nubMtl     rl.Material

	// labelDirty marks the label material for re-tinting with the current
	// accent color on the next draw.
	labelDirty bool
}

func (d *deck) ensureLoaded() {
	if d.loaded {
		return
	}
	d.baseMesh = rl.GenMeshCube(baseHalfExtent*2, baseHeight, baseHalfExtent*2)
	d.platterMesh = rl.GenMeshCylinder(platterRadius, platterHeight, 32)
	d.recordMesh = rl.GenMeshCylinder(recordRadius, recordHeight, 48)
	d.labelMesh = rl.GenMeshCylinder(labelRadius, labelHeight, 32)
	d.nubMesh = rl.GenMeshCylinder(nubRadius, nubHeight, 12)

	d.baseMtl = tintedMaterial(baseColor)
	d.platterMtl = tintedMaterial(platterColor)
	d.recordMtl = tintedMaterial(recordColor)
	d.labelMtl = tintedMaterial(rl.Gray)
	d.nubMtl = tintedMaterial(nubColor)
	d.loaded = true
}

func tintedMaterial(c rl.Color) rl.Material {
	mtl := rl.LoadMaterialDefault()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = c
	}
	return mtl
}

// drawDeck draws the base, platter, spindle nub, and tonearm. The tonearm
// swings by the docked slot's angle; idle decks show it parked.
func (d *deck) drawDeck(docked *ownership.Slot) {
	// Cylinder meshes have their base at y=0.
	at := func(mesh rl.Mesh, mtl rl.Material, x, y, z float32) {
		rl.DrawMesh(mesh, mtl, rl.MatrixTranslate(x, y, z))
	}
	at(d.baseMesh, d.baseMtl, 0, platterY-platterHeight-baseHeight/2, 0)
	at(d.platterMesh, d.platterMtl, 0, platterY-platterHeight, 0)
	at(d.nubMesh, d.nubMtl, 0, platterY, 0)

	angle := float32(0)
	if docked != nil {
		angle = docked.TonearmAngle
	}
	pivot := rl.NewVector3(tonearmPivotX, platterY+0.35, -tonearmPivotX*0.3)
	tip := rl.NewVector3(
		pivot.X-tonearmLength*math32.Sin(angle+0.3),
		platterY+0.12,
		pivot.Z+tonearmLength*math32.Cos(angle+0.3),
	)
	rl.DrawCylinderEx(pivot, tip, tonearmRadius, tonearmRadius*0.6, 8, tonearmColor)
	rl.DrawSphere(pivot, 0.14, tonearmColor)
}

// drawRecord draws the shared record disc and its label at the given position
// with the motion state's orientation, tinted with the accent color.
func (d *deck) drawRecord(pos rl.Vector3, orient rl.Matrix, accent rl.Color) {
	if d.labelDirty {
		if albedo := d.labelMtl.GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = accent
		}
		d.labelDirty = false
	}
	trans := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)

	// Center the cylinder on the position before rotating, then place it.
	center := rl.MatrixTranslate(0, -recordHeight/2, 0)
	transform := rl.MatrixMultiply(rl.MatrixMultiply(center, orient), trans)
	rl.DrawMesh(d.recordMesh, d.recordMtl, transform)

	labelCenter := rl.MatrixTranslate(0, -labelHeight/2+0.01, 0)
	labelTransform := rl.MatrixMultiply(rl.MatrixMultiply(labelCenter, orient), trans)
	rl.DrawMesh(d.labelMesh, d.labelMtl, labelTransform)
}

// drawFloorGrid draws a dim grid on the XZ plane under the deck.
func drawFloorGrid() {
	var start, end rl.Vector3
	for i := -floorExtent; i <= floorExtent; i += floorStep {
		c := floorMinor
		if i%5 == 0 {
			c = floorMajor
		}
		start.X, start.Y, start.Z = float32(i), 0, float32(-floorExtent)
		end.X, end.Y, end.Z = float32(i), 0, float32(floorExtent)
		rl.DrawLine3D(start, end, c)
		start.X, start.Z = float32(-floorExtent), float32(i)
		end.X, end.Z = float32(floorExtent), float32(i)
		rl.DrawLine3D(start, end, c)
	}
}

// Draw renders the 3D world and the 2D overlay. Call between BeginDrawing and
// EndDrawing, after Update.
func (s *Scene) Draw() {
	rl.BeginMode3D(s.rig.Camera)
	if s.GridVisible {
		drawFloorGrid()
	}
	s.deck.ensureLoaded()
	s.deck.drawDeck(s.owner.TurntableSlot())
	if slot := s.owner.ActiveSlot(); slot != nil {
		accent := slot.Visual.AccentColor
		if accent == (rl.Color{}) {
			accent = s.accent
		}
		orient := motion.Orientation(slot.Motion, s.lastFrame)
		s.deck.drawRecord(slot.Motion.Target, orient, accent)
	}
	rl.EndMode3D()
	s.overlay.Draw(s.coverPaths, s.accent)
}

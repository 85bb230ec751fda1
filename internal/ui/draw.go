package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	cardBackground = rl.NewColor(24, 24, 28, 230)
	cardBorder     = rl.NewColor(70, 70, 80, 255)
	hoverBorder    = rl.NewColor(200, 200, 210, 255)
	titleColor     = rl.NewColor(220, 220, 225, 255)
)

// coverTextures caches GPU textures per cover path. Created lazily during Draw
// so LoadTexture runs after the window/OpenGL context exists.
type coverTextures struct {
	cache map[string]rl.Texture2D
}

// texture returns the cached texture for path, loading it on first use.
// Returns an invalid texture when loading fails (caller draws a plain card).
func (c *coverTextures) texture(path string) rl.Texture2D {
	if path == "" {
		return rl.Texture2D{}
	}
	if c.cache == nil {
		c.cache = make(map[string]rl.Texture2D)
	}
	if tex, ok := c.cache[path]; ok {
		return tex
	}
	tex := rl.LoadTexture(path)
	c.cache[path] = tex
	return tex
}

// SetFont sets the font used for card titles. Zero texture ID = raylib default.
func (o *Overlay) SetFont(font rl.Font) {
	o.font = font
}

// Draw renders the card strip: cover (when cached on disk), card frame, and
// title. The focused card gets the accent border. Call inside BeginDrawing,
// after the 3D scene.
func (o *Overlay) Draw(coverPaths map[string]string, accent rl.Color) {
	o.ensureRects()
	for i, r := range o.rects {
		x, y := int32(r.X), int32(r.Y)
		w, h := int32(r.Width), int32(r.Height)

		rl.DrawRectangle(x, y, w, h, cardBackground)
		if path := coverPaths[o.records[i].ID]; path != "" {
			if tex := o.textures.texture(path); rl.IsTextureValid(tex) {
				src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
				dst := rl.NewRectangle(r.X, r.Y, r.Width, r.Height)
				rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
			}
		}

		border := cardBorder
		switch {
		case i == o.focused:
			border = accent
		case i == o.hovered:
			border = hoverBorder
		}
		rl.DrawRectangleLines(x, y, w, h, border)

		if !o.compact {
			if o.font.Texture.ID != 0 {
				pos := rl.NewVector2(r.X+4, r.Y+r.Height+4)
				rl.DrawTextEx(o.font, o.records[i].Title, pos, titleFontSize, 1, titleColor)
			} else {
				rl.DrawText(o.records[i].Title, x+4, y+h+4, titleFontSize, titleColor)
			}
		}
	}
}

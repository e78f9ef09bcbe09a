// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// spriteSize is the pixel diameter of generated disc sprites.
	spriteSize = 64
	fontURL    = "goregular.ttf"
	fontSize   = 16
)

// Palette holds the colors of the table.
type Palette struct {
	Background color.RGBA
	Boundary   color.RGBA
	Obstacle   color.RGBA
	Pocket     color.RGBA
	Ball       color.RGBA
	Aim        color.RGBA
	Text       color.RGBA
}

// DefaultPalette is a green felt table with a white ball.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{0x2e, 0x8b, 0x57, 0xff},
		Boundary:   color.RGBA{0x3c, 0xb3, 0x71, 0xff},
		Obstacle:   color.RGBA{0x8b, 0x45, 0x13, 0xff},
		Pocket:     color.RGBA{0x10, 0x10, 0x10, 0xff},
		Ball:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		Aim:        color.RGBA{0xff, 0xd7, 0x00, 0xff},
		Text:       color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}

// AssetManager handles loading and managing game assets
type AssetManager struct {
	palette Palette

	ballSprite common.Drawable
	font       *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager(palette Palette) *AssetManager {
	return &AssetManager{palette: palette}
}

// Preload registers the HUD font with engo. Call it from Scene.Preload.
func (am *AssetManager) Preload() error {
	if err := engo.Files.LoadReaderData(fontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	return nil
}

// LoadAssets builds textures and fonts. It needs a GL context.
func (am *AssetManager) LoadAssets() error {
	am.font = &common.Font{URL: fontURL, FG: am.palette.Text, Size: fontSize}
	if err := am.font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to create font: %w", err)
	}

	texture := common.NewImageObject(shadedDisc(spriteSize, am.palette.Ball))
	am.ballSprite = common.NewTextureSingle(texture)
	return nil
}

// Palette returns the table colors.
func (am *AssetManager) Palette() Palette { return am.palette }

// BallSprite returns the ball texture, spriteSize pixels across.
func (am *AssetManager) BallSprite() common.Drawable { return am.ballSprite }

// Font returns the HUD font.
func (am *AssetManager) Font() *common.Font { return am.font }

// shadedDisc draws a disc lit from the top left. Pixels outside the disc
// are transparent.
func shadedDisc(size int, base color.RGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	light := [2]float64{-0.4, -0.4}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - r) / r
			dy := (float64(y) + 0.5 - r) / r
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			// Distance from the highlight darkens toward the rim.
			lx, ly := dx-light[0], dy-light[1]
			shade := 1 - 0.45*math.Min(1, math.Sqrt(lx*lx+ly*ly)/1.4)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(float64(base.R) * shade),
				G: uint8(float64(base.G) * shade),
				B: uint8(float64(base.B) * shade),
				A: 0xff,
			})
		}
	}
	return img
}

package tui

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"
)

const previewCacheCap = 24

/**************************************************************************************************
** cellPair is one terminal cell of a half-block rendering: the upper and the lower pixel of a
** cell, drawn as '▀' with the top color as foreground and the bottom color as background. One
** cell therefore covers a 1x2 pixel patch, which is what makes terminal previews watchable.
**************************************************************************************************/
type cellPair struct {
	top    tcell.Color
	bottom tcell.Color
}

type renderedImage struct {
	cols  int
	rows  int
	cells [][]cellPair
}

type renderKey struct {
	id   string
	cols int
	rows int
}

/**************************************************************************************************
** previewCache downloads photo variants, scales them into half-block cell grids and caches the
** result per photo and panel size. Loads run asynchronously; the notify callback asks the event
** loop for a redraw once a load lands, and a failed load is cached as absent so a broken URL is
** not re-fetched on every frame.
**************************************************************************************************/
type previewCache struct {
	mu      sync.Mutex
	client  *gallery.Client
	logger  *logrus.Logger
	notify  func()
	images  map[renderKey]*renderedImage
	order   []renderKey
	loading map[renderKey]bool
}

func newPreviewCache(client *gallery.Client, logger *logrus.Logger, notify func()) *previewCache {
	return &previewCache{
		client:  client,
		logger:  logger,
		notify:  notify,
		images:  map[renderKey]*renderedImage{},
		loading: map[renderKey]bool{},
	}
}

/**************************************************************************************************
** Get returns the rendered preview for a photo at the given panel size, starting an async load
** on a miss. Until the load lands the caller draws its placeholder.
**
** @param photo - Photo whose preview is wanted
** @param cols - Panel width in cells
** @param rows - Panel height in cells
** @return *renderedImage - Cached rendering
** @return bool - Whether a rendering is available
**************************************************************************************************/
func (p *previewCache) Get(photo utils.TPhoto, cols, rows int) (*renderedImage, bool) {
	source := previewURL(photo)
	if source == "" || cols <= 0 || rows <= 0 {
		return nil, false
	}

	key := renderKey{id: photo.ID, cols: cols, rows: rows}
	p.mu.Lock()
	if img, seen := p.images[key]; seen {
		p.mu.Unlock()
		return img, img != nil
	}
	if p.loading[key] {
		p.mu.Unlock()
		return nil, false
	}
	p.loading[key] = true
	p.mu.Unlock()

	go p.load(key, source)
	return nil, false
}

func previewURL(photo utils.TPhoto) string {
	switch {
	case photo.MediumURL != "":
		return photo.MediumURL
	case photo.FullURL != "":
		return photo.FullURL
	default:
		return photo.ThumbURL
	}
}

func (p *previewCache) load(key renderKey, source string) {
	var rendered *renderedImage
	data, err := p.client.DownloadImage(source)
	if err != nil {
		p.logger.Debugf("🖼️  Preview download for %s failed: %v", key.id, err)
	} else if decoded, _, decodeErr := image.Decode(bytes.NewReader(data)); decodeErr != nil {
		p.logger.Debugf("🖼️  Preview decode for %s failed: %v", key.id, decodeErr)
	} else {
		rendered = toHalfBlocks(decoded, key.cols, key.rows)
	}

	p.mu.Lock()
	p.images[key] = rendered
	delete(p.loading, key)
	p.order = append(p.order, key)
	for len(p.order) > previewCacheCap {
		delete(p.images, p.order[0])
		p.order = p.order[1:]
	}
	p.mu.Unlock()

	if p.notify != nil {
		p.notify()
	}
}

/**************************************************************************************************
** toHalfBlocks scales an image into a cols x rows cell grid, two pixel rows per cell. The aspect
** ratio is preserved inside the box, so the rendering may come back narrower or shorter than
** asked; callers center it.
**
** @param img - Decoded source image
** @param cols - Maximum width in cells
** @param rows - Maximum height in cells
** @return *renderedImage - Half-block cell grid
**************************************************************************************************/
func toHalfBlocks(img image.Image, cols, rows int) *renderedImage {
	fitted := resize.Thumbnail(uint(cols), uint(rows*2), img, resize.Lanczos3)
	bounds := fitted.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	cellRows := (height + 1) / 2

	cells := make([][]cellPair, cellRows)
	for y := 0; y < cellRows; y++ {
		row := make([]cellPair, width)
		for x := 0; x < width; x++ {
			top := pixelColor(fitted, bounds.Min.X+x, bounds.Min.Y+y*2)
			bottom := top
			if y*2+1 < height {
				bottom = pixelColor(fitted, bounds.Min.X+x, bounds.Min.Y+y*2+1)
			}
			row[x] = cellPair{top: top, bottom: bottom}
		}
		cells[y] = row
	}

	return &renderedImage{cols: width, rows: cellRows, cells: cells}
}

func pixelColor(img image.Image, x, y int) tcell.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

/**************************************************************************************************
** draw paints the rendering centered inside the given panel rectangle.
**
** @param screen - Target screen
** @param x - Panel left edge
** @param y - Panel top edge
** @param cols - Panel width in cells
** @param rows - Panel height in cells
**************************************************************************************************/
func (ri *renderedImage) draw(screen tcell.Screen, x, y, cols, rows int) {
	offsetX := x + (cols-ri.cols)/2
	offsetY := y + (rows-ri.rows)/2
	for cy, row := range ri.cells {
		for cx, cell := range row {
			style := tcell.StyleDefault.Foreground(cell.top).Background(cell.bottom)
			screen.SetContent(offsetX+cx, offsetY+cy, '▀', nil, style)
		}
	}
}

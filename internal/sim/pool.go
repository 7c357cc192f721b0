package sim

import (
	"sync"

	"github.com/san-kum/voronoi/internal/field"
)

// RasterPool recycles rasters of one size between frames.
type RasterPool struct {
	pool sync.Pool
	w, h int
}

func NewRasterPool(w, h int) *RasterPool {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p := &RasterPool{w: w, h: h}
	p.pool.New = func() interface{} {
		return field.NewRaster(w, h)
	}
	return p
}

func (p *RasterPool) Get() *field.Raster {
	return p.pool.Get().(*field.Raster)
}

// Put returns r to the pool. Rasters of another size are dropped.
func (p *RasterPool) Put(r *field.Raster) {
	if r == nil || r.W != p.w || r.H != p.h {
		return
	}
	p.pool.Put(r)
}

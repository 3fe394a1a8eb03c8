package inkview

// frameStats counts controller activity between debug log lines.
// Only reported when the controller is in debug mode.
type frameStats struct {
	pointerEvents     int
	wheelEvents       int
	fullInvalidations int
	rectInvalidations int
}

// debugMaxSurfaces is the live surface count above which debug mode warns
// about a likely leak.
const debugMaxSurfaces = 64

// debugLog reports the frame's stats when anything happened and resets them.
func (c *Controller) debugLog() {
	stats := c.stats
	c.stats = frameStats{}
	if !c.debug || stats == (frameStats{}) {
		return
	}
	tr := c.view.Transform()
	Logger().Debug("frame",
		"pointer_events", stats.pointerEvents,
		"wheel_events", stats.wheelEvents,
		"full_invalidations", stats.fullInvalidations,
		"rect_invalidations", stats.rectInvalidations,
		"gesture", c.gesture.State().String(),
		"scale", tr.Scale,
		"offset_x", tr.Offset.X,
		"offset_y", tr.Offset.Y,
	)
	debugCheckSurfaceCount(c.pool)
}

// debugCheckSurfaceCount warns if the pool holds more than debugMaxSurfaces.
func debugCheckSurfaceCount(p *SurfacePool) {
	if n := p.Len(); n > debugMaxSurfaces {
		Logger().Warn("many live offscreen surfaces", "count", n, "threshold", debugMaxSurfaces)
	}
}

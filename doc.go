// Package inkview is the canvas controller that sits between a host window
// and a handwriting ink engine, built on [Ebitengine].
//
// It decides what each pointer contact means (a pen stroke, a finger drawing
// or a finger scrolling the page), owns the pan and zoom of the view, tracks
// which parts of the two render layers need repainting, and hands out
// offscreen surfaces the engine can render into.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	ctrl, err := inkview.NewController(inkview.Options{
//		Engine:  engine,  // your InkEngine
//		Content: doc,     // your ContentSource
//		Width:   1024, Height: 768,
//	})
//	if err != nil { ... }
//	inkview.Run(ctrl, painter, inkview.RunConfig{Title: "Notes"})
//
// For full control, implement [ebiten.Game] yourself, feed pointer events
// to [Controller.PointerDown], [Controller.PointerMoved] and friends, call
// [Controller.Update] once per tick and repaint the regions returned by
// [DirtyTracker.Flush].
//
// # Gestures
//
// Every contact opens a pointer session. The ink engine is told about the
// stroke immediately. Pens and mice draw. A touch that moves more than
// [Config.ScrollThreshold] pixels on either axis in one move cancels its
// stroke and scrolls the view instead, unless the engine implements
// [ScrollGate] and vetoes it. Only one session exists at a time; other
// pointers are ignored until it ends.
//
// Wheel notches scroll vertically, horizontally with Shift, and zoom with
// Ctrl. Subscribe to [Gesture.OnGesture] or attach an [EventStore] (see the
// ecs sub-package) to observe transitions.
//
// # View
//
// [ViewManager] maps model space to view pixels as view = model*Scale-Offset.
// Zooming keeps the viewport center fixed and scales linearly with the
// number of steps. Every change passes through a [ClampPolicy], invalidates
// both layers and is published to [ViewManager.OnChanged] listeners.
//
// # Layers and dirty regions
//
// Content is drawn on two layers: [LayerModel] for recognized content and
// [LayerCapture] for ink being written. [DirtyTracker] rounds, clips and
// merges invalidations per layer. [Run] repaints only the flushed regions
// through a [LayerPainter].
//
// # Offscreen surfaces
//
// [SurfacePool] allocates surfaces by handle. Handles are never reused.
// [EbitenAllocator] backs them with GPU images; [PixmapAllocator] with CPU
// pixmaps that need no graphics device.
//
// # Configuration
//
// [LoadConfig] reads TOML, YAML or JSON. [WatchConfig] reloads the file when
// it changes and [Controller.PollConfig] applies reloads on the game loop.
//
// # Logging
//
// inkview is silent by default. Pass a [log/slog] logger to [SetLogger] to
// see gesture decisions, surface lifetimes and engine failures.
//
// # Testing
//
// [Controller.InjectTap], [Controller.InjectDrag] and friends queue
// synthetic input consumed one event per frame. [LoadTestScript] replays a
// JSON script of such steps plus screenshots:
//
//	{"steps": [
//		{"action": "tap", "device": "pen", "x": 100, "y": 100},
//		{"action": "drag", "device": "touch", "fromX": 400, "fromY": 400, "toX": 400, "toY": 100, "frames": 10},
//		{"action": "screenshot", "label": "scrolled"}
//	]}
//
// [Ebitengine]: https://ebitengine.org
package inkview

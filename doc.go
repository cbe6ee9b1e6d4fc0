// Package ink implements a real-time freehand drawing pipeline: pointer
// samples are fitted to cubic Bezier curves, tessellated into triangle
// ribbons and drawn on the GPU through gogpu/wgpu.
//
// # Overview
//
// The root package holds the data model shared by every stage:
//
//   - [InputSample]: a pointer sample in world coordinates
//   - [BezierSegment]: one cubic curve piece
//   - [Stroke]: a chunk of a gesture with color, width and [Tool]
//   - [DrawingState]: the immutable snapshot the renderer draws
//
// plus the [Fitter], the projection helpers ([Ortho], [LookAt],
// [ScreenToWorld]) and [Config].
//
// # Architecture
//
//   - capture: gesture state machine (filtering, chunking, undo/redo)
//   - internal/tessellate: Bezier segments to triangles
//   - internal/gpu: per-stroke GPU buffers and the renderer
//   - view: wires capture to the renderer and runs the render loop
//   - store: append-only stroke persistence
//
// # Threading
//
// Capture runs on the input goroutine and never touches GPU handles.
// GPU work is queued as tasks and executed on the render goroutine.
// The two sides share only an atomically swapped [DrawingState].
//
// # Logging
//
// ink is silent by default. Call [SetLogger] to enable structured
// logging through log/slog.
package ink

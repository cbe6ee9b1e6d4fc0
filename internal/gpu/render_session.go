//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink"
)

// fenceTimeout bounds the wait for a submitted frame.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the BytesPerRow alignment WebGPU requires for
// texture to buffer copies.
const copyPitchAlignment = 256

// frameTarget selects where a frame ends up.
//
//   - zero value: the offscreen resolve texture, no readback
//   - surface: the caller's texture view is the resolve target
//   - readback: offscreen, then copied into the image
type frameTarget struct {
	surface  hal.TextureView
	readback *image.RGBA
}

// encodeFrame records one render pass with every stroke of the published
// state, submits it and waits for the fence.
func (r *Renderer) encodeFrame(target frameTarget) error {
	state := r.state.Load()

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "ink_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ink_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	clear := clearColor(r.cfg.ClearColor)
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "ink_stroke_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{r.textures.colorAttachment(target.surface, clear)},
	})
	rp.SetPipeline(r.pipeline.pipeline)
	rp.SetBindGroup(0, r.frameBind, nil)
	drawn := r.recordStrokes(rp, state)
	rp.End()

	var staging hal.Buffer
	var aligned uint32
	if target.readback != nil {
		staging, aligned, err = r.recordReadback(encoder)
		if err != nil {
			encoder.DiscardEncoding()
			return err
		}
		defer r.device.DestroyBuffer(staging)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	slogger().Debug("frame submitted", slog.Int("strokes", drawn))

	if target.readback != nil {
		return r.readPixels(staging, aligned, target.readback)
	}
	return nil
}

// recordStrokes draws committed strokes in order, then the active stroke,
// which is re-tessellated every frame. It returns the number drawn.
func (r *Renderer) recordStrokes(rp hal.RenderPassEncoder, state *ink.DrawingState) int {
	drawn := 0
	for i := range state.Committed {
		if r.buffers.Draw(rp, state.Committed[i]) {
			drawn++
		}
	}
	if state.Active != nil {
		if err := r.buffers.Prepare(*state.Active); err != nil {
			slogger().Warn("prepare active stroke failed",
				slog.Int64("id", state.Active.ID),
				slog.String("error", err.Error()))
		} else if r.buffers.Draw(rp, *state.Active) {
			drawn++
		}
	}
	return drawn
}

// recordReadback copies the resolve texture into a new staging buffer.
func (r *Renderer) recordReadback(encoder hal.CommandEncoder) (hal.Buffer, uint32, error) {
	w, h := r.width, r.height
	aligned := (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ink_staging",
		Size:  uint64(aligned) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create staging buffer: %w", err)
	}

	// After the MSAA resolve the texture is a render attachment; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(r.textures.resolveTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: aligned, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.textures.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	return staging, aligned, nil
}

// readPixels strips row padding from the staging buffer and converts the
// BGRA texels into img.
func (r *Renderer) readPixels(staging hal.Buffer, aligned uint32, img *image.RGBA) error {
	w, h := int(r.width), int(r.height)
	data := make([]byte, int(aligned)*h)
	if err := r.queue.ReadBuffer(staging, 0, data); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	for y := 0; y < h; y++ {
		src := data[y*int(aligned) : y*int(aligned)+w*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		convertBGRAToRGBA(src, dst, w)
	}
	return nil
}

// clearColor converts a background color to a premultiplied clear value.
func clearColor(c ink.Color) gputypes.Color {
	p := c.Premultiplied()
	return gputypes.Color{R: float64(p[0]), G: float64(p[1]), B: float64(p[2]), A: float64(p[3])}
}

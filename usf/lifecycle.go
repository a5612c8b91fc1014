package usf

// Destroy releases every LUT texture owned by h and discards its
// parsed state. Destroy is idempotent and safe to call on a nil
// receiver.
func (h *HookObject) Destroy() {
	if h == nil {
		return
	}
	for _, tex := range h.lut {
		if tex.Tex != nil {
			tex.Tex.Destroy()
		}
	}
	h.lut = nil
	h.passes = nil
	h.passTextures = nil
}

// Reset clears all per-frame pass-texture state. The renderer calls
// this at the end of every frame.
func (h *HookObject) Reset() {
	h.passTextures = make(map[string]passTexture)
}

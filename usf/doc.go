// Package usf parses the user-shader format (USF), a multi-section,
// magic-prefix-line text document that fan-authored shaders use to
// describe hook passes and named textures, into a reusable hook object
// a video/image renderer drives through its pipeline stages.
//
// Parse consumes a gpu.Provider supplied by the caller; the returned
// *HookObject is driven by repeated calls to Hook (once per pipeline
// stage per frame), Save (when a requested output becomes available),
// and Reset (at end of frame), and is released with Destroy.
package usf

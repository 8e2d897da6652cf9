// Package gpu uploads fontatlas pages to GPU textures through wgpu HAL and
// provides the WGSL shader and vertex data used to draw glyph quads.
//
// Pages are uploaded as single-channel R8Unorm textures, one per pixel
// size. Call PageTextures.Sync after populating pages; it uploads pages
// that changed and recreates textures whose page has grown since the last upload.
//
//	textures, err := gpu.NewPageTextures(device, queue)
//	if err != nil {
//		return err
//	}
//	defer textures.Close()
//
//	if err := mgr.EnsurePage(16); err != nil {
//		return err
//	}
//	if err := textures.Sync(mgr.Pages()); err != nil {
//		return err
//	}
//	view, _ := textures.View(16)
//
// Build with the nogpu tag to exclude the package contents.
package gpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package atlastex hands fontatlas pages to a host application as
// gpucontext textures.
//
// Host frameworks such as gogpu expose texture creation through
// gpucontext.TextureCreator and drawing through gpucontext.TextureDrawer.
// Cache keeps one RGBA texture per page, updating it in place when the page
// only gained glyphs and recreating it when the page has grown.
//
//	cache, err := atlastex.FromDrawer(dc)
//	if err != nil {
//		return err
//	}
//	defer cache.Close()
//
//	page, _ := mgr.Page(16)
//	tex, err := cache.Texture(page)
//
// Coverage is expanded to premultiplied white, so a texture draws the glyphs
// in white over whatever is below.
package atlastex

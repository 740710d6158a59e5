// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native provides the wgpu HAL surface backend for icon atlases.
//
// The backend owns the atlas texture, its view and sampler on a device
// supplied by the host, plus the two compositing shader modules
// (icon_blit and icon_sliced). Importing the package registers it as the
// "wgpu" surface backend at GPU priority:
//
//	import _ "github.com/gogpu/iconatlas/backend/native"
//
//	atlas, err := iconatlas.New(cfg, iconatlas.WithDeviceProvider(provider))
//
// The provider must expose HalDevice() and HalQueue() returning hal.Device
// and hal.Queue, which is what gogpu's DeviceProvider does. Without a
// provider the registry falls back to the CPU "image" backend.
//
// Every blit is drawn on the device: the source is uploaded to a temporary
// texture and one quad is rendered into the atlas with the icon_blit or
// icon_sliced pipeline. The surface keeps a CPU shadow for snapshots only.
package native

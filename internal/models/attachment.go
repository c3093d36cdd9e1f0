// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Attachment is an image input to a generation request. The bytes are
// produced by client-side downscaling, travel base64-encoded over the
// API, and are never persisted beyond the single request.
type Attachment struct {
	ID       string `json:"id"`
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Package site embeds the default xmtp.org source tree so the generator can
// build without a checkout of the content.
package site

import "embed"

// FS holds site.yaml and the docs, community, blog and static trees.
//
//go:embed site.yaml docs community blog static
var FS embed.FS

package labpress

import "embed"

// EmbeddedAssets holds the stylesheet and admin editor script served under
// /assets/.
//
//go:embed assets/*
var EmbeddedAssets embed.FS

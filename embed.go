package catblog

import "embed"

// EmbeddedAssets contains static assets shipped with catblog: style.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

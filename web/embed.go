package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// StaticFS embeds the browser client.
//
//go:embed static/*
var StaticFS embed.FS

// Handler serves the client, index.html at /.
func Handler() http.Handler {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

var index = template.Must(template.ParseFS(files, "static/index.html"))

// Static serves the client assets. Mount it below a prefix stripped to the asset name.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

// ServeIndex renders the page with the collection path the script talks to.
func ServeIndex(w http.ResponseWriter, r *http.Request, collectionPath string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := index.Execute(w, collectionPath); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

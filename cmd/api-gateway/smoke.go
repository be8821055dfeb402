package main

import (
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed smoke.html
var smokeHTML string

var smokeTmpl = template.Must(template.New("smoke").Parse(smokeHTML))

// smokePage serves a browser page that drives the auth flow and a few
// endpoints against the API mounted at prefix.
func smokePage(prefix string, log *zap.Logger) http.HandlerFunc {
	data := struct{ Prefix string }{prefix}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := smokeTmpl.Execute(w, data); err != nil {
			log.Error("render smoke page", zap.Error(err))
		}
	}
}

/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package handlers

import (
	"bytes"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/google/safehtml/template"
)

const (
	pageMethod   = "/"
	staticMethod = "/static/"
)

//go:embed static
var staticFiles embed.FS

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<p class="subtitle">{{.Subtitle}}</p>
<div id="scatter"></div>
<p class="exports">
<a id="export-png" href="/export.png">PNG</a>
<a id="export-svg" href="/export.svg">SVG</a>
<a id="export-xlsx" href="/export.xlsx">XLSX</a>
</p>
</div>
<script src="/static/index.js"></script>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// PageData parameterizes the page shell.
type PageData struct {
	Title, Subtitle string
}

// pageHandler serves the page shell and its static assets.
type pageHandler struct {
	data     PageData
	static   http.Handler
	wrappers []WrapFunc
}

// NewPageHandler returns a Handler serving the page shell, rendered with
// data, and the embedded script and stylesheet.
func NewPageHandler(data PageData) QueryHandler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embedded directory always exists.
		panic(err)
	}
	return &pageHandler{
		data:   data,
		static: http.StripPrefix(staticMethod, http.FileServer(http.FS(sub))),
	}
}

func (ph *pageHandler) Wrap(wrappers ...WrapFunc) Handler {
	ph.wrappers = append(ph.wrappers, wrappers...)
	return ph
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (ph *pageHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		pageMethod:   wrap(ph.getPageHandler, ph.wrappers),
		staticMethod: wrap(ph.static.ServeHTTP, ph.wrappers),
	}
}

func (ph *pageHandler) getPageHandler(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != pageMethod {
		http.NotFound(w, req)
		return
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, ph.data); err != nil {
		slog.Error("failed to render page", "err", err)
		http.Error(w, "Failed to render page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

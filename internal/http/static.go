package http

import _ "embed"

// indexPage is the single-file chat UI served at GET /.
//
//go:embed static/index.html
var indexPage []byte

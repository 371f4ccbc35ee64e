package build

import (
	"html/template"
	"io"
)

type indexData struct {
	Title       string
	Description string
	ThemeColor  string
	Manifest    string
	CSS         string
	WasmExec    string
	Wasm        string
	WorkerMeta  string
	WorkerMode  string
	WorkerURL   string
}

var indexTemplate = template.Must(template.New("index.html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="theme-color" content="{{.ThemeColor}}">
  {{- if .Description}}
  <meta name="description" content="{{.Description}}">
  {{- end}}
  <meta name="{{.WorkerMeta}}" content="{{.WorkerMode}}" data-script="{{.WorkerURL}}">
  <link rel="manifest" href="{{.Manifest}}">
  <link rel="icon" href="/favicon.ico">
  <link rel="stylesheet" href="{{.CSS}}">
  <title>{{.Title}}</title>
  <script src="{{.WasmExec}}"></script>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch({{.Wasm}}), go.importObject)
      .then((result) => go.run(result.instance))
      .catch((err) => console.error("failed to start app:", err));
  </script>
</head>
<body>
  <noscript>You need to enable JavaScript to run this app.</noscript>
  <div id="root"></div>
</body>
</html>
`))

func writeIndex(w io.Writer, data indexData) error {
	return indexTemplate.Execute(w, data)
}

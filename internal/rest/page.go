package rest

import (
	_ "embed"
	"html/template"
	"io"
)

//go:embed chat.html
var chatPage string

// pageRenderer serves the shared chat page with this instance's display name
// injected. Informational only, the page talks to the relay over /ws.
type pageRenderer struct {
	tmpl        *template.Template
	serviceName string
}

func newPageRenderer(serviceName string) *pageRenderer {
	return &pageRenderer{
		tmpl:        template.Must(template.New("chat").Parse(chatPage)),
		serviceName: serviceName,
	}
}

func (p *pageRenderer) render(w io.Writer) error {
	return p.tmpl.Execute(w, struct{ ServiceName string }{ServiceName: p.serviceName})
}

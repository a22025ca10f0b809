package remote

import (
	"net/http"

	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/vdom"
)

const doctype = "<!DOCTYPE html>\n"

// Page returns the HTML document that boots the client.
func Page(title string) string {
	doc := memdom.NewDocument()
	page := vdom.Html(
		vdom.Head(
			vdom.H("meta", vdom.AttrOf("charset", "utf-8")),
			vdom.H("title", vdom.Text(title)),
		),
		vdom.Body(
			vdom.Div(vdom.ID("app")),
			vdom.H("script", vdom.Src("/client.js")),
		),
	)
	return doctype + memdom.RenderString(doc.Build(page))
}

func (h *Hub) servePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(Page(h.config.Title)))
}

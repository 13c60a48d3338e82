//go:build js && wasm

// Command scrollreel-wasm runs a page inside a browser. The page description
// is read, as YAML, from the element with id "scrollreel-page":
//
//	<script type="text/yaml" id="scrollreel-page">...</script>
//
// Relative frame templates resolve against the document base URI.
package main

import (
	"context"
	"strings"
	"syscall/js"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/host/browser"
	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/source"
)

var log = logger.Log

const pageElementID = "scrollreel-page"

func main() {
	doc := js.Global().Get("document")

	el := doc.Call("getElementById", pageElementID)
	if el.IsNull() {
		log.Fatalf("missing #%s element", pageElementID)
	}
	if v := el.Call("getAttribute", "data-debug"); !v.IsNull() {
		logger.SetDebug(true)
	}

	cfg, err := config.ParsePage([]byte(el.Get("textContent").String()))
	if err != nil {
		log.Fatal(err)
	}

	h := browser.New()
	base := doc.Get("baseURI").String()
	pg, err := player.NewPage(cfg, h, func(seq config.Sequence) (source.Source, error) {
		return source.Open(resolve(seq.URLTemplate, base))
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := pg.Mount(context.Background()); err != nil {
		log.Fatal(err)
	}
	h.Run(pg, doc.Get("body"))

	select {}
}

// resolve makes a frame template absolute so it is fetched over HTTP.
func resolve(template, base string) string {
	lower := strings.ToLower(template)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return template
	}
	return js.Global().Get("URL").New(template, base).Get("href").String()
}

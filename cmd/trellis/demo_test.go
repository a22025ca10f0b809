package main

import (
	"testing"

	"github.com/vango-dev/trellis/pkg/vtest"
)

func TestDemoTabsKeepState(t *testing.T) {
	h := vtest.Mount(t, demoApp())

	h.Dispatch("increment", "click", nil)
	h.Dispatch("increment", "click", nil)
	h.ExpectContains("<span>clicks: 2</span>")
	h.ExpectContains("clicks 2</p>")

	h.Dispatch("toggle", "click", nil)
	h.ExpectContains(`<button id="toggle">show counter</button>`)
	h.ExpectNotContains(`class="counter"`)
	h.Dispatch("note", "input", "hello")
	h.ExpectContains("<p>5 characters</p>")

	h.Dispatch("toggle", "click", nil)
	h.ExpectContains("<span>clicks: 2</span>")
	h.ExpectNoWarnings()
}

func TestDemoTick(t *testing.T) {
	h := vtest.Mount(t, demoApp())
	for range 6 {
		tick(h.Root())
		h.Tick()
	}
	h.ExpectContains("tick 6, head beta")
	h.ExpectContains(`<ul class="feed"><li>beta</li><li>gamma</li><li>delta</li><li>epsilon</li><li>alpha</li></ul>`)
}

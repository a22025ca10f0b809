package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/trellis/internal/config"
	"github.com/vango-dev/trellis/pkg/component"
	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		ticks  int
		pretty bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo app to HTML",
		Long: `Mount the demo app into an in-memory document, advance it by the
given number of ticks and print the resulting HTML.

Examples:
  trellis render
  trellis render --ticks=3 --pretty
  trellis render -o demo.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if pretty {
				cfg.Render.Pretty = true
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return renderDemo(w, cfg, ticks)
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "t", 0, "Number of ticks to apply before rendering")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// renderDemo mounts the demo app, applies ticks and writes the markup.
func renderDemo(w io.Writer, cfg *config.Config, ticks int) error {
	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}
	opts := append(cfg.RuntimeOptions(), reactive.WithLogger(logger))
	rt := reactive.NewRuntime(opts...)

	doc := memdom.NewDocument()
	p := patch.New(doc, doc,
		patch.WithPredicates(platform.HTML{}),
		patch.WithWarnHandler(rt.Warn),
	)
	r := component.NewRenderer(rt, p, component.WithLogger(logger))

	app := doc.Build(vdom.Div(vdom.ID("app")))
	doc.Attach(doc.Body(), app)
	root := r.Mount(demoApp(), app, false)
	for range ticks {
		tick(root)
		rt.Tick()
	}

	elm, ok := root.Elm().(*memdom.Node)
	if !ok {
		return fmt.Errorf("demo app rendered no element")
	}
	renderer := memdom.NewRenderer(memdom.RenderConfig{
		Pretty:       cfg.Render.Pretty,
		Indent:       cfg.Render.Indent,
		IncludeProps: cfg.Render.IncludeProps,
	})
	if err := renderer.RenderToWriter(w, elm); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

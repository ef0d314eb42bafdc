package main

import (
	"context"
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/heathj/scriptlayout/canvas"
	"github.com/heathj/scriptlayout/dom"
	"github.com/heathj/scriptlayout/layout"
	"github.com/heathj/scriptlayout/script"
)

const Version = "0.1.0"

func main() {
	usage := `Script/layout reflow driver.

Builds a document of nested <div>s, runs a reflow, damages one leaf and
reflows again, printing what layout touched each time.

Usage:
    scriptlayout [--depth=<depth>] [--fanout=<fanout>] [--canvas] [--log_level=<level>]
    scriptlayout -h | --help
    scriptlayout --version

Options:
    -h --help             Show this screen.
    --version             Show version.
    --depth=<depth>       Tree depth below <body> [default: 4].
    --fanout=<fanout>     Children per element [default: 3].
    --canvas              Put a canvas with a live renderer under each leaf parent.
    --log_level=<level>   logrus level [default: info].`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], Version)
	if err != nil {
		panic(err)
	}

	cfg, err := parseConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n\n%s\n", err, usage)
		os.Exit(2)
	}
	logrus.SetLevel(cfg.level)

	if err := run(cfg.depth, cfg.fanout, cfg.canvas); err != nil {
		logrus.WithError(err).Error("run failed")
		os.Exit(1)
	}
}

type config struct {
	depth, fanout int
	canvas        bool
	level         logrus.Level
}

func parseConfig(opts docopt.Opts) (config, error) {
	var cfg config
	var err error
	if cfg.depth, err = opts.Int("--depth"); err != nil {
		return cfg, errors.Wrap(err, "--depth must be an integer")
	}
	if cfg.depth < 0 {
		return cfg, errors.Errorf("--depth must not be negative, got %d", cfg.depth)
	}
	if cfg.fanout, err = opts.Int("--fanout"); err != nil {
		return cfg, errors.Wrap(err, "--fanout must be an integer")
	}
	if cfg.fanout < 1 {
		return cfg, errors.Errorf("--fanout must be at least 1, got %d", cfg.fanout)
	}
	if cfg.canvas, err = opts.Bool("--canvas"); err != nil {
		return cfg, errors.Wrap(err, "--canvas")
	}
	levelStr, err := opts.String("--log_level")
	if err != nil {
		return cfg, errors.Wrap(err, "--log_level")
	}
	if cfg.level, err = logrus.ParseLevel(levelStr); err != nil {
		return cfg, errors.Wrap(err, "--log_level")
	}
	return cfg, nil
}

func run(depth, fanout int, withCanvas bool) error {
	doc := dom.NewDocument("about:blank")
	body := doc.AppendChild(doc.CreateElement("body"))
	var leaf *dom.Node
	var renderers []*canvas.Receiver
	build(doc, body, depth, fanout, withCanvas, &leaf, &renderers)

	thread := layout.NewThread(layout.NopEngine{}, layout.DefaultOptions())
	win := script.NewWindow(doc, thread.Chan())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return thread.Run(ctx)
	})
	for _, r := range renderers {
		r := r
		g.Go(func() error {
			return drain(ctx, r)
		})
	}
	g.Go(func() error {
		defer cancel()

		res, err := win.Reflow(ctx, layout.ForDisplay)
		if err != nil {
			return err
		}
		report("initial", res)

		leaf.MarkDirty(dom.StyleDamage)
		res, err = win.Reflow(ctx, layout.ForDisplay)
		if err != nil {
			return err
		}
		report("leaf restyle", res)

		return win.Exit(ctx)
	})

	if err := g.Wait(); err != nil && errors.Cause(err) != context.Canceled {
		return err
	}
	return nil
}

func build(doc *dom.Document, parent *dom.Node, depth, fanout int, withCanvas bool, leaf **dom.Node, renderers *[]*canvas.Receiver) {
	if depth == 0 {
		*leaf = parent
		return
	}
	for i := 0; i < fanout; i++ {
		child := parent.AppendChild(doc.CreateElement("div"))
		build(doc, child, depth-1, fanout, withCanvas, leaf, renderers)
	}
	if withCanvas && depth == 1 {
		c := parent.AppendChild(doc.CreateElement("canvas"))
		sender, receiver := canvas.NewChannel(4)
		c.Canvas.AttachChannel(sender)
		*renderers = append(*renderers, receiver)
	}
}

// drain plays the renderer: it reads until its sender goes away.
func drain(ctx context.Context, r *canvas.Receiver) error {
	for {
		msg, err := r.Recv(ctx)
		if err != nil {
			return nil
		}
		logrus.WithField("kind", msg.Kind).Debugf("renderer got %dx%d", msg.Width, msg.Height)
	}
}

func report(pass string, res *layout.Result) {
	fmt.Printf("%-14s processed=%d restyled=%d reflowed=%d skipped=%d canvases=%d\n",
		pass, len(res.Processed), res.Restyled, res.Reflowed, res.Skipped, res.CanvasesPainted)
}

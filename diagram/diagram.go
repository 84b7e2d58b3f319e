// Package diagram renders the d2 code blocks of a document to SVG files and
// replaces them with figures.
//
// Images are written to the builtassets directory next to the document, in
// files named after the hash of the diagram source. A file that already
// exists is not generated again, so editing a diagram creates a new file and
// stale ones have to be deleted by hand.
package diagram

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hesusruiz/specmark/dom"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// AssetsDir is the directory of generated images, relative to the document.
const AssetsDir = "builtassets"

// RenderFunc turns the source of a diagram into an image.
type RenderFunc func(ctx context.Context, src string) ([]byte, error)

// Generator replaces d2 blocks by images.
type Generator struct {
	// BaseDir is the directory of the document being processed
	BaseDir string
	Render  RenderFunc
	log     *zap.SugaredLogger
}

// NewGenerator returns a generator writing under baseDir with the embedded d2
// renderer.
func NewGenerator(baseDir string, logger *zap.SugaredLogger) *Generator {
	return &Generator{BaseDir: baseDir, Render: RenderD2, log: logger}
}

// AssetName returns the path, relative to the document, of the image for a
// diagram of kind with source src.
func AssetName(kind string, src string) string {
	sum := blake3.Sum256([]byte(src))
	return path.Join(AssetsDir, kind+"_"+hex.EncodeToString(sum[:])+".svg")
}

// Process renders every pre.language-d2 block under root.
func (g *Generator) Process(ctx context.Context, root *html.Node) error {
	for _, pre := range dom.Select(root, "pre.language-d2") {
		src := textOf(pre)
		name := AssetName("d2", src)
		fileName := filepath.Join(g.BaseDir, filepath.FromSlash(name))

		if _, err := os.Stat(fileName); err != nil {
			g.log.Infow("generating diagram", "file", fileName)

			body, err := g.Render(ctx, src)
			if err != nil {
				return fmt.Errorf("rendering d2 diagram %s: %w", name, err)
			}
			if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(fileName, body, 0o664); err != nil {
				return err
			}
		} else {
			g.log.Debugw("diagram up to date", "file", fileName)
		}

		figure := dom.NewElement("figure")
		figure.AppendChild(dom.NewElement("img", "class", "figureshadow", "src", name, "alt", dom.GetAttr(pre, "title")))
		dom.ReplaceNode(pre, figure)
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// RenderD2 compiles a d2 diagram with the dagre layout and renders it as SVG.
func RenderD2(ctx context.Context, src string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, err
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, src, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, err
	}
	return d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
}

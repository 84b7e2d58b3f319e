// Package spec runs the whole preprocessing of a document: from the source
// lines to a cross-referenced HTML tree ready to be rendered.
package spec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hesusruiz/specmark/biblio"
	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/datablock"
	"github.com/hesusruiz/specmark/dfn"
	"github.com/hesusruiz/specmark/diagram"
	"github.com/hesusruiz/specmark/dom"
	"github.com/hesusruiz/specmark/highlight"
	"github.com/hesusruiz/specmark/link"
	"github.com/hesusruiz/specmark/markdown"
	"github.com/hesusruiz/specmark/panel"
	"github.com/hesusruiz/specmark/shorthand"
	"github.com/hesusruiz/specmark/sliceedit"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Document is a specification being preprocessed.
type Document struct {
	FileName string
	Metadata *config.Metadata

	src []string
	log *zap.SugaredLogger

	root *html.Node
	body *html.Node

	anchors []datablock.Anchor
	dfns    []*dfn.Dfn

	links  *link.Manager
	biblio *biblio.Source

	normative   *panel.Bibliography
	informative *panel.Bibliography
	external    *panel.ExternalTerms

	preprocessed bool
}

// New returns a document for the source lines of fileName.
func New(fileName string, src []string, logger *zap.SugaredLogger) *Document {
	return &Document{
		FileName:    fileName,
		src:         src,
		log:         logger,
		normative:   panel.NewBibliography(),
		informative: panel.NewBibliography(),
		external:    panel.NewExternalTerms(),
	}
}

// Root returns the document node of the tree, nil before Preprocess.
func (d *Document) Root() *html.Node { return d.root }

// Dfns returns the definitions of the document.
func (d *Document) Dfns() []*dfn.Dfn { return d.dfns }

func (d *Document) baseDir() string {
	return filepath.Dir(d.FileName)
}

// Preprocess is PreprocessContext with a background context.
func (d *Document) Preprocess() error {
	return d.PreprocessContext(context.Background())
}

// PreprocessContext builds the tree of the document and resolves all its
// cross-references. It can be called only once.
func (d *Document) PreprocessContext(ctx context.Context) error {
	if d.preprocessed {
		return nil
	}
	d.preprocessed = true

	front, lines, err := config.SplitFrontMatter(d.src)
	if err != nil {
		return fmt.Errorf("%s: %w", d.FileName, err)
	}
	d.Metadata, err = config.ParseMetadata(front)
	if err != nil {
		return fmt.Errorf("%s: parsing front matter: %w", d.FileName, err)
	}
	md := d.Metadata

	specData := md.SpecData
	if !filepath.IsAbs(specData) {
		specData = filepath.Join(d.baseDir(), specData)
	}
	d.log.Debugw("metadata", "title", md.Title, "shortname", md.Shortname, "specData", specData)

	d.links = link.NewManager(link.NewExternalSource(specData))
	d.biblio = biblio.NewSource(specData)
	d.addLocalBiblio()

	lines, d.anchors, err = datablock.Extract(d.FileName, lines, md.TabSize)
	if err != nil {
		return err
	}
	d.log.Debugw("anchor blocks extracted", "anchors", len(d.anchors))

	parser := &markdown.Parser{Filename: d.FileName, TabSize: md.TabSize}
	markup, err := parser.Parse(lines)
	if err != nil {
		return err
	}

	expanded, unknown := sliceedit.ExpandMacros([]byte(strings.Join(markup, "\n")), md.Macros())
	for _, name := range unknown {
		d.log.Warnw("unknown macro", "macro", "["+name+"]")
	}

	d.root, err = html.Parse(bytes.NewReader(expanded))
	if err != nil {
		return fmt.Errorf("%s: %w", d.FileName, err)
	}
	d.body = dom.Body(d.root)
	d.addTitle()
	correctH1(d.body)

	shorthand.Transform(d.body, md.Shorthands)

	if err := highlight.New(md.CodeStyle).Highlight(d.body, "d2"); err != nil {
		return fmt.Errorf("%s: highlighting code: %w", d.FileName, err)
	}
	if md.Diagrams {
		if err := diagram.NewGenerator(d.baseDir(), d.log).Process(ctx, d.body); err != nil {
			return fmt.Errorf("%s: %w", d.FileName, err)
		}
	}

	addHeadingIDs(d.body)

	d.dfns, err = dfn.Classify(d.body)
	if err != nil {
		return fmt.Errorf("%s: %w", d.FileName, err)
	}
	dom.DedupIDs(d.root)
	d.log.Debugw("definitions classified", "dfns", len(d.dfns))

	datablock.Register(d.anchors, d.links)
	dfn.Register(d.dfns, d.links)

	if err := d.processBiblioLinks(); err != nil {
		return err
	}
	if err := d.processAutoLinks(); err != nil {
		return err
	}
	dom.DedupIDs(d.root)

	panel.AddSelfLinks(d.body)
	panel.AddDfnPanels(d.body, d.dfns)
	panel.AddIndexSection(d.body, d.dfns, d.external)
	panel.AddReferencesSection(d.body, d.normative, d.informative)
	clean(d.body)
	dom.DedupIDs(d.root)

	d.log.Infow("document preprocessed",
		"file", d.FileName,
		"dfns", len(d.dfns),
		"normative", d.normative.Len(),
		"informative", d.informative.Len(),
	)
	return nil
}

// Finish renders the document to w, preprocessing it first if needed.
func (d *Document) Finish(w io.Writer) error {
	if err := d.Preprocess(); err != nil {
		return err
	}
	if d.root == nil {
		return fmt.Errorf("%s: document was not preprocessed", d.FileName)
	}
	return html.Render(w, d.root)
}

func (d *Document) addLocalBiblio() {
	for _, key := range d.Metadata.LocalBiblioKeys() {
		e, ok := d.Metadata.LocalBiblio(key)
		if !ok {
			d.log.Warnw("ignoring local biblio entry without title or href", "key", key)
			continue
		}
		d.biblio.AddEntry(key, biblio.Entry{
			Format:   biblio.Dict,
			LinkText: key,
			Title:    e.Title,
			URL:      e.Href,
			Date:     e.Date,
			Status:   e.Status,
			Authors:  e.Authors,
		})
	}
}

// addTitle fills in the title element of the head and inserts an h1 with
// the title at the start of the body.
func (d *Document) addTitle() {
	title := d.Metadata.Title
	if title == "" {
		return
	}

	head := dom.SelectFirst(d.root, "head")
	if head != nil && dom.SelectFirst(head, "title") == nil {
		dom.AppendElement(head, "title").AppendChild(dom.NewText(title))
	}

	if d.body != nil {
		h1 := dom.NewElement("h1", "id", "title", "class", "no-ref")
		h1.AppendChild(dom.NewText(title))
		d.body.InsertBefore(h1, d.body.FirstChild)
	}
}

// addHeadingIDs gives an id to every heading of level 2 and deeper that
// lacks one.
func addHeadingIDs(root *html.Node) {
	for _, h := range dom.Select(root, "h2, h3, h4, h5, h6") {
		if dom.HasAttr(h, "id") {
			continue
		}
		if name := dom.GenerateName(dom.TextContent(h)); name != "" {
			dom.SetAttr(h, "id", name)
		}
	}
}

// NewDocumentFromFile reads fileName into a new document.
func NewDocumentFromFile(fileName string, logger *zap.SugaredLogger) (*Document, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src []string
	linescanner := bufio.NewScanner(file)
	for linescanner.Scan() {
		src = append(src, linescanner.Text())
	}
	if err := linescanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}

	return New(fileName, src, logger), nil
}

// PrintStats writes a summary of the preprocessed document to w.
func (d *Document) PrintStats(w io.Writer) {
	fmt.Fprintf(w, "Number of lines: %v\n", len(d.src))
	fmt.Fprintf(w, "Number of definitions: %v\n", len(d.dfns))
	fmt.Fprintf(w, "Number of anchors: %v\n", len(d.anchors))
	fmt.Fprintf(w, "Normative references: %v\n", d.normative.Len())
	fmt.Fprintf(w, "Informative references: %v\n", d.informative.Len())
	if d.external.Len() > 0 {
		fmt.Fprintf(w, "Terms linked from: %v\n", strings.Join(d.external.Specs(), ", "))
	}
}

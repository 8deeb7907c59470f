package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
)

// ChromedpConfig controls how the renderer drives Chrome.
type ChromedpConfig struct {
	// DefaultTimeout bounds a single render when the request carries none.
	DefaultTimeout time.Duration
	// RemoteURL points at an already-running Chrome DevTools endpoint.
	// Empty means the renderer launches its own headless browser.
	RemoteURL string
	// Headless and DisableGPU both default to true; servers have neither
	// a display nor a GPU worth using.
	Headless   bool
	DisableGPU bool
	// NoSandbox is needed when the process runs as root, typically in a
	// container.
	NoSandbox bool
	// Scale multiplies the rendered page size. 1.0 is natural size.
	Scale  float64
	Logger *zap.Logger
}

func (c *ChromedpConfig) normalize() {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = defaultChromeTimeout
	}
	if c.Scale == 0 {
		c.Scale = defaultScale
	}
	if !c.Headless {
		c.Headless = true
	}
	if !c.DisableGPU {
		c.DisableGPU = true
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// ChromedpRenderer prints HTML to PDF through the Chrome DevTools
// Protocol. One allocator is shared across renders; each render gets its
// own browser tab.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var _ Renderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer builds a renderer. A nil config gets defaults.
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	config.normalize()

	r := &ChromedpRenderer{config: config, logger: config.Logger}
	r.allocCtx, r.allocCancel = newAllocator(config)
	return r, nil
}

func newAllocator(cfg *ChromedpConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		// /dev/shm is tiny inside containers; Chrome falls over without this.
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render prints the request's HTML to a PDF document.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "no HTML content to render", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "unsupported paper size: "+string(req.PaperSize), nil)
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	started := time.Now()
	doc := r.buildCompleteHTML(req)
	params := r.buildPrintParams(req)

	var pdfData []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		setDocumentContent(doc),
		printToPDF(params, &pdfData),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("render exceeded %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "render cancelled", err)
		}
		r.logger.Error("Chrome render failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome devtools run: "+err.Error(), err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome produced an empty PDF", nil)
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(started),
	}
	r.logger.Info("Document rendered",
		zap.Int("bytes", len(result.PDFData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// setDocumentContent injects the HTML into the blank tab's main frame.
func setDocumentContent(html string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	}
}

// printToPDF runs the DevTools print command and writes the bytes to out.
func printToPDF(p *printParams, out *[]byte) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(p.printBackground).
			WithPaperWidth(p.paperWidth).
			WithPaperHeight(p.paperHeight).
			WithMarginTop(p.marginTop).
			WithMarginRight(p.marginRight).
			WithMarginBottom(p.marginBottom).
			WithMarginLeft(p.marginLeft).
			WithScale(p.scale).
			WithLandscape(p.landscape).
			WithDisplayHeaderFooter(p.displayHeaderFooter).
			WithHeaderTemplate(p.headerTemplate).
			WithFooterTemplate(p.footerTemplate).
			Do(ctx)
		if err != nil {
			return err
		}
		*out = data
		return nil
	}
}

// printParams mirrors the DevTools PrintToPDF arguments, all lengths in
// inches because that is what Chrome expects.
type printParams struct {
	paperWidth          float64
	paperHeight         float64
	marginTop           float64
	marginRight         float64
	marginBottom        float64
	marginLeft          float64
	scale               float64
	landscape           bool
	printBackground     bool
	displayHeaderFooter bool
	headerTemplate      string
	footerTemplate      string
}

func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.PaperSize.Dimensions()
	params := &printParams{
		scale:           r.config.Scale,
		printBackground: true,
		paperWidth:      mmToInches(width),
		paperHeight:     mmToInches(height),
		landscape:       req.Orientation == OrientationLandscape,
		marginTop:       mmToInches(req.Margins.Top),
		marginRight:     mmToInches(req.Margins.Right),
		marginBottom:    mmToInches(req.Margins.Bottom),
		marginLeft:      mmToInches(req.Margins.Left),
	}

	if req.HeaderHTML != "" || req.FooterHTML != "" {
		params.displayHeaderFooter = true
		params.headerTemplate = req.HeaderHTML
		params.footerTemplate = req.FooterHTML

		// Chrome clips headers and footers into the margin area, so a
		// margin under 10mm would cut them off.
		if params.headerTemplate != "" && params.marginTop < mmToInches(10) {
			params.marginTop = mmToInches(10)
		}
		if params.footerTemplate != "" && params.marginBottom < mmToInches(10) {
			params.marginBottom = mmToInches(10)
		}
	}
	return params
}

// buildCompleteHTML wraps a bare fragment in a minimal document. Full
// documents pass through untouched.
func (r *ChromedpRenderer) buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString(`<meta charset="UTF-8">`)
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(req.Title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// Close tears down the shared Chrome allocator.
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount counts /Type /Page objects in the raw PDF, excluding
// the parent /Type /Pages nodes the same substring also matches.
func estimatePageCount(pdfData []byte) int {
	pages := bytes.Count(pdfData, []byte("/Type /Page"))
	parents := bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(pages-parents, 1)
}

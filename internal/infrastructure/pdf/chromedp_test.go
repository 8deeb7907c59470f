package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.True(t, r.config.Headless)
	assert.True(t, r.config.DisableGPU)
}

func TestChromedpRenderer_Render_NilRequest(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Render(context.Background(), nil)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestChromedpRenderer_Render_EmptyHTML(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestChromedpRenderer_Render_InvalidPaperSize(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Render(context.Background(), &RenderRequest{
		HTML:      "<p>hello</p>",
		PaperSize: PaperSize("A9"),
	})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestBuildPrintParams_A4Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	req := &RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
	}

	params := r.buildPrintParams(req)

	// A4 is 210mm x 297mm
	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.False(t, params.landscape)
	assert.True(t, params.printBackground)
}

func TestBuildPrintParams_A4Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	req := &RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   PaperSizeA4,
		Orientation: OrientationLandscape,
		Margins:     DefaultMargins(),
	}

	params := r.buildPrintParams(req)

	assert.True(t, params.landscape)
}

func TestBuildPrintParams_Letter(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	req := &RenderRequest{
		HTML:      "<html>test</html>",
		PaperSize: PaperSizeLetter,
		Margins:   DefaultMargins(),
	}

	params := r.buildPrintParams(req)

	assert.InDelta(t, mmToInches(215.9), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(279.4), params.paperHeight, 0.01)
}

func TestBuildPrintParams_FooterForcesMargin(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	req := &RenderRequest{
		HTML:       "<html>test</html>",
		PaperSize:  PaperSizeA4,
		Margins:    Margins{Top: 5, Right: 5, Bottom: 5, Left: 5},
		FooterHTML: "<span class='pageNumber'></span>",
	}

	params := r.buildPrintParams(req)

	assert.True(t, params.displayHeaderFooter)
	assert.GreaterOrEqual(t, params.marginBottom, mmToInches(10))
	// Top margin stays as requested since no header was supplied
	assert.InDelta(t, mmToInches(5), params.marginTop, 0.001)
}

func TestBuildCompleteHTML_WrapsFragment(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	req := &RenderRequest{
		HTML:  "<p>fragment</p>",
		Title: "Invoice INV-202608-00001",
	}

	html := r.buildCompleteHTML(req)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Invoice INV-202608-00001</title>")
	assert.Contains(t, html, "<p>fragment</p>")
}

func TestBuildCompleteHTML_PassesThroughFullDocument(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	full := "<!DOCTYPE html><html><body>done</body></html>"
	req := &RenderRequest{HTML: full}

	assert.Equal(t, full, r.buildCompleteHTML(req))
}

func TestEstimatePageCount(t *testing.T) {
	onePage := []byte("%PDF-1.4 /Type /Pages /Type /Page trailer")
	assert.Equal(t, 1, estimatePageCount(onePage))

	threePages := []byte("/Type /Pages /Type /Page /Type /Page /Type /Page")
	assert.Equal(t, 3, estimatePageCount(threePages))

	// Never reports fewer than one page
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
}

func TestChromedpRenderer_RenderIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromedp integration test in short mode")
	}
	t.Skip("requires a local Chrome/Chromium binary")

	r, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true, DefaultTimeout: 20 * time.Second})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	result, err := r.Render(context.Background(), &RenderRequest{
		HTML:      "<h1>Tax Invoice</h1>",
		PaperSize: PaperSizeA4,
		Margins:   DefaultMargins(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDFData)
	assert.GreaterOrEqual(t, result.PageCount, 1)
}

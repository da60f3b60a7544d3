package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// BrowserRenderer prints assembled documents through headless Chrome. Each
// call starts its own browser and tears it down before returning.
type BrowserRenderer struct {
	ExecPath string
	Timeout  time.Duration
}

// NewBrowserRenderer returns a renderer using Chrome at execPath, or the
// default lookup when execPath is empty.
func NewBrowserRenderer(execPath string, timeout time.Duration) *BrowserRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BrowserRenderer{ExecPath: execPath, Timeout: timeout}
}

// RenderPDF prints document on US-Letter paper honouring its @page rules.
func (r *BrowserRenderer) RenderPDF(ctx context.Context, document string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelRun()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser pdf: %w", err)
	}
	if len(pdf) == 0 {
		return nil, ErrConversionFailure
	}
	return pdf, nil
}

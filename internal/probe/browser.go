package probe

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// connectedSelector matches once the page script has opened its event stream.
const connectedSelector = `body[data-connected="true"]`

// Render loads a page in headless Chrome, waits until its script is
// connected and the drop zone is visible, and returns the live DOM.
// Requires Chrome/Chromium to be installed on the system.
func Render(ctx context.Context, urlStr string, timeout time.Duration, verbose bool) (*Result, error) {
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", urlStr)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html, location string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady(connectedSelector),
		chromedp.WaitVisible("#uploadArea", chromedp.ByID),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "browser rendering failed",
			Cause:   err,
		}
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes from %s", len(html), location)
	}

	return &Result{
		URL:         location,
		HTML:        html,
		ContentType: "text/html",
		StatusCode:  200,
	}, nil
}

// RenderSimple is Render with the default timeout.
func RenderSimple(ctx context.Context, urlStr string, verbose bool) (*Result, error) {
	return Render(ctx, urlStr, DefaultTimeout, verbose)
}

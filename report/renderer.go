package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"cursor-stats/utils"
)

// ChartRenderer screenshots chart pages with headless Chrome.
type ChartRenderer struct {
	logger    *utils.Logger
	chromeBin string
	timeout   time.Duration
	retry     *utils.RetryConfig
}

// NewChartRenderer creates a renderer. An empty chromeBin is looked up on
// the system when rendering.
func NewChartRenderer(logger *utils.Logger, chromeBin string, maxRetries int) *ChartRenderer {
	return &ChartRenderer{
		logger:    logger,
		chromeBin: chromeBin,
		timeout:   30 * time.Second,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
	}
}

// ChromeBinary returns the browser the renderer will launch, or "" when none is installed.
func (r *ChartRenderer) ChromeBinary() string {
	if r.chromeBin != "" {
		return r.chromeBin
	}
	return findChromeBinary()
}

// RenderPNG loads page from a data: URL, so nothing leaves the machine,
// and returns a PNG of the full page.
func (r *ChartRenderer) RenderPNG(ctx context.Context, page string, width, height int) ([]byte, error) {
	chromeBin := r.ChromeBinary()
	r.logger.Debug("[chart] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(width, height),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))

	var png []byte
	err := r.retry.Do(ctx, "render-chart", func() error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(int64(width), int64(height)),
			chromedp.Navigate(url),
			chromedp.WaitVisible("#chart", chromedp.ByQuery),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("chart: screenshot: %w", err)
	}

	r.logger.Debug("[chart] Captured %d bytes", len(png))
	return png, nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

package rag

import (
	"context"
	"image"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/semaphore"

	// Search results frequently point at webp files.
	_ "golang.org/x/image/webp"
)

const (
	fetchTimeout  = 4 * time.Second
	maxImageBytes = 15 << 20
)

// ImageFetcher downloads and validates candidate images concurrently.
type ImageFetcher struct {
	httpClient  *http.Client
	concurrency int64
	minSide     int
}

// NewImageFetcher creates a fetcher. concurrency bounds simultaneous
// downloads; minSide is the minimum shorter-side pixel count an image must
// have to survive validation.
func NewImageFetcher(concurrency, minSide int) *ImageFetcher {
	if concurrency <= 0 {
		concurrency = 5
	}
	if minSide <= 0 {
		minSide = 250
	}
	return &ImageFetcher{
		httpClient:  &http.Client{Timeout: fetchTimeout},
		concurrency: int64(concurrency),
		minSide:     minSide,
	}
}

// FetchAll downloads every result image. The returned slice is positionally
// aligned with results; a slot is nil when its download or validation failed,
// so scores can be matched back to their source metadata by index.
func (f *ImageFetcher) FetchAll(ctx context.Context, results []ImageResult) []image.Image {
	images := make([]image.Image, len(results))
	sem := semaphore.NewWeighted(f.concurrency)
	var wg sync.WaitGroup

	for i, result := range results {
		if err := sem.Acquire(ctx, 1); err != nil {
			slog.Warn("image fetch cancelled", "err", err, "launched", i, "total", len(results))
			break
		}
		wg.Add(1)
		go func(i int, result ImageResult) {
			defer wg.Done()
			defer sem.Release(1)
			img, err := f.fetchOne(ctx, result)
			if err != nil {
				slog.Debug("candidate image discarded", "url", result.URL, "err", err)
				return
			}
			images[i] = img
		}(i, result)
	}

	// Every launched download must finish before the slice is read, even
	// when cancellation cut the launch loop short.
	wg.Wait()
	return images
}

func (f *ImageFetcher) fetchOne(ctx context.Context, result ImageResult) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		return nil, err
	}
	// Image CDNs commonly reject requests without a browser UA or hotlink
	// requests without a referer from the hosting page.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	if result.SourceURL != "" {
		req.Header.Set("Referer", result.SourceURL)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errStatus(resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() < f.minSide || bounds.Dy() < f.minSide {
		return nil, errTooSmall
	}
	return img, nil
}

type fetchError string

func (e fetchError) Error() string { return string(e) }

const errTooSmall = fetchError("image below minimum size")

func errStatus(code int) error {
	return fetchError("unexpected status " + http.StatusText(code))
}

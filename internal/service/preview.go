package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PreviewService fetches the page title of a task URL so announcements can
// carry a human-readable label. Callers treat every failure as "no title".
type PreviewService struct {
	httpClient *http.Client
}

func NewPreviewService(timeout time.Duration) *PreviewService {
	return &PreviewService{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *PreviewService) PageTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.Join(strings.Fields(title), " "), nil
}

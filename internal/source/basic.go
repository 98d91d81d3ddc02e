package source

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"campus-space-backend/config"
	"campus-space-backend/internal/course"
)

// BasicAdapter fetches the portal schedule page without authenticating.
// It sees whatever the portal serves anonymously, which is sometimes the
// full table and sometimes nothing.
type BasicAdapter struct {
	cfg    config.PortalConfig
	client *http.Client
}

func NewBasicAdapter(cfg config.PortalConfig) *BasicAdapter {
	return &BasicAdapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *BasicAdapter) Source() course.Source {
	return course.SourceBasic
}

// Fetch tries the primary extraction rule against the tbody rows and, only
// when that yields nothing, the compact rule against all table rows.
func (b *BasicAdapter) Fetch(ctx context.Context) ([]course.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", b.cfg.UserAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse portal HTML: %w", err)
	}

	rows := extractRows(doc, "table tbody tr", scheduleRule)
	if len(rows) == 0 {
		log.Println("portal: primary extraction rule found nothing, trying compact rule")
		rows = extractRows(doc, "table tr", compactScheduleRule)
	}
	if len(rows) == 0 {
		return nil, ErrNoUsableRows
	}

	return rows, nil
}

package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

// ErrNoConstituents indicates a constituents file without data rows.
var ErrNoConstituents = errors.New("no constituents found")

// FetchConstituents downloads an index constituents CSV and converts the
// rows into securities tagged with the index name. The file must carry a
// header line with at least a Symbol column; Name, Exchange and Currency
// columns are picked up when present.
func FetchConstituents(ctx context.Context, client *http.Client, addr, index string) ([]*domain.Security, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch constituents: unexpected status %s", resp.Status)
	}

	return ParseConstituents(resp.Body, index)
}

// ParseConstituents reads a constituents CSV from r.
func ParseConstituents(r io.Reader, index string) ([]*domain.Security, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read constituents header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	symbolCol, ok := col["symbol"]
	if !ok {
		return nil, fmt.Errorf("constituents header %v has no symbol column", header)
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	now := time.Now().UTC()

	var securities []*domain.Security
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read constituents row: %w", err)
		}

		symbol := strings.TrimSpace(record[symbolCol])
		if symbol == "" {
			continue
		}

		securities = append(securities, &domain.Security{
			Symbol:   symbol,
			Name:     field(record, "name"),
			Exchange: field(record, "exchange"),
			Currency: field(record, "currency"),
			Index:    index,
			AddedAt:  now,
		})
	}

	if len(securities) == 0 {
		return nil, ErrNoConstituents
	}
	return securities, nil
}

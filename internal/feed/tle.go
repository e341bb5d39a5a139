package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTLEURL is the public TLE API root.
const DefaultTLEURL = "https://tle.ivanstanojevic.me"

// TLERecord is one element set as served by the TLE API.
type TLERecord struct {
	SatelliteID int       `json:"satelliteId"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Line1       string    `json:"line1"`
	Line2       string    `json:"line2"`
}

type tleCollection struct {
	TotalItems int         `json:"totalItems"`
	Member     []TLERecord `json:"member"`
}

// TLEClient queries the TLE API.
type TLEClient struct {
	*Client
}

// NewTLEClient creates a TLE API client.
func NewTLEClient(opts ...Option) *TLEClient {
	return &TLEClient{Client: newClient("tle", DefaultTLEURL, opts...)}
}

// Search returns element sets whose name matches query. Results are in the
// order the service returns them; at most pageSize are returned.
func (c *TLEClient) Search(ctx context.Context, query string, pageSize int) ([]TLERecord, error) {
	q := url.Values{}
	if s := strings.TrimSpace(query); s != "" {
		q.Set("search", s)
	}
	if pageSize > 0 {
		q.Set("page-size", strconv.Itoa(pageSize))
	}

	var coll tleCollection
	if err := c.getJSON(ctx, "/api/tle", q, &coll); err != nil {
		return nil, err
	}
	c.logger.Info("tle search %q: %d of %d records", query, len(coll.Member), coll.TotalItems)
	return coll.Member, nil
}

// Get returns the latest element set for a NORAD catalog number.
func (c *TLEClient) Get(ctx context.Context, catalogID int) (TLERecord, error) {
	if catalogID <= 0 {
		return TLERecord{}, fmt.Errorf("tle: invalid catalog number %d", catalogID)
	}
	var rec TLERecord
	if err := c.getJSON(ctx, "/api/tle/"+strconv.Itoa(catalogID), nil, &rec); err != nil {
		return TLERecord{}, err
	}
	return rec, nil
}

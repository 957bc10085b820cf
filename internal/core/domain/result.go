package domain

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ResultRecord is one search hit as delivered by the result stream.
// Every field except Title may be absent on the wire.
type ResultRecord struct {
	// Title is the torrent name.
	Title string `json:"Title"`

	// Size is the payload size in bytes.
	Size *int64 `json:"Size"`

	// Seeders is the number of seeding peers reported by the tracker.
	Seeders *int64 `json:"Seeders"`

	// PublishDate is an ISO-8601 timestamp, empty when unknown.
	PublishDate string `json:"PublishDate"`

	// Tracker names the upstream indexer that produced the hit.
	Tracker string `json:"Tracker"`

	// Details links to the tracker's page for the hit.
	Details string `json:"Details"`

	// MagnetURI is the magnet link, when the indexer supplied one.
	MagnetURI string `json:"MagnetUri"`

	// InfoHash is the BitTorrent v1 info hash.
	InfoHash string `json:"InfoHash"`

	// Seq is the arrival position within the ingestion run.
	// It breaks sort ties and defines source discovery order.
	Seq int64 `json:"Seq,omitempty"`
}

// Actionable reports whether the record can be copied or downloaded.
func (r ResultRecord) Actionable() bool {
	return r.MagnetURI != "" || r.InfoHash != "" || r.Details != ""
}

// Magnet returns the record's magnet link, building one from the info hash
// when the indexer did not supply it. Returns "" when neither is present.
func (r ResultRecord) Magnet() string {
	if r.MagnetURI != "" {
		return r.MagnetURI
	}
	if r.InfoHash == "" {
		return ""
	}
	m := "magnet:?xt=urn:btih:" + strings.ToLower(r.InfoHash)
	if r.Title != "" {
		m += "&dn=" + url.QueryEscape(r.Title)
	}
	return m
}

// Key returns a row identity for the record at position i.
func (r ResultRecord) Key(i int) string {
	if r.InfoHash != "" {
		return r.InfoHash
	}
	if r.Details != "" {
		return r.Details
	}
	return r.Title + "-" + strconv.Itoa(i)
}

// SeedersValue returns Seeders, treating a missing value as 0.
func (r ResultRecord) SeedersValue() int64 {
	if r.Seeders == nil {
		return 0
	}
	return *r.Seeders
}

// SizeValue returns Size, treating a missing value as 0.
func (r ResultRecord) SizeValue() int64 {
	if r.Size == nil {
		return 0
	}
	return *r.Size
}

var publishLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PublishedAt parses PublishDate. The second return is false when the
// date is missing or in none of the accepted ISO-8601 layouts.
func (r ResultRecord) PublishedAt() (time.Time, bool) {
	s := strings.TrimSpace(r.PublishDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PublishedUnixMilli returns the publish time in epoch milliseconds,
// with missing or unparseable dates mapped to 0.
func (r ResultRecord) PublishedUnixMilli() int64 {
	t, ok := r.PublishedAt()
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

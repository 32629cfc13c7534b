package model

import (
	"encoding/json"
	"strings"
	"time"
)

// UpgradeLink is a labeled link to the vendor EOL announcement or upgrade guidance.
type UpgradeLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Date is a catalog date cell.
//
// The published catalog is not consistent in its date formats, Raw holds the cell text as published
// and Time is set only when the text could be parsed.
type Date struct {
	Time time.Time `json:"time,omitempty"`
	Raw  string    `json:"raw,omitempty"`
}

// dateLayouts are tried in order when parsing catalog dates.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan. 2, 2006",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2 2006",
	"January 2006",
	"Jan 2006",
}

// ParseDate returns a Date for the given catalog cell text.
func ParseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return Date{Time: t, Raw: raw}
		}
	}

	return Date{Raw: raw}
}

// dateJSON is the JSON form of a Date, the time is left out when the date is not known.
type dateJSON struct {
	Time *time.Time `json:"time,omitempty"`
	Raw  string     `json:"raw,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	v := dateJSON{Raw: d.Raw}
	if d.Known() {
		v.Time = &d.Time
	}

	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var v dateJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*d = Date{Raw: v.Raw}
	if v.Time != nil {
		d.Time = *v.Time
	}

	return nil
}

// Known returns true when the date was parsed.
func (d Date) Known() bool { return !d.Time.IsZero() }

// String returns the date in the ISO 8601 format when known, the raw cell text otherwise.
func (d Date) String() string {
	if d.Known() {
		return d.Time.Format("2006-01-02")
	}

	return d.Raw
}

// EOLRecord is one product entry of the vendor end-of-life catalog.
//
// Product is matched as-is against the inventory device model, the comparison is case sensitive
// and vendor naming variants are not normalized.
type EOLRecord struct {
	Product          string        `json:"product"`
	AnnouncementDate Date          `json:"announcement_date"`
	EndOfSaleDate    Date          `json:"end_of_sale_date"`
	EndOfSupportDate Date          `json:"end_of_support_date"`
	UpgradePath      []UpgradeLink `json:"upgrade_path"`
}

// Catalog is the EOL catalog in its published order.
type Catalog struct {
	// Source identifies where the catalog was loaded from.
	Source  string      `json:"source"`
	Records []EOLRecord `json:"records"`
}

// Len returns the number of catalog records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.Records)
}

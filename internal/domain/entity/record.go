package entity

import (
	"time"
)

// HistoryLimit bounds the number of archived variants kept per record.
// Oldest entries are evicted first.
const HistoryLimit = 50

// Settings holds per-record resolution options.
type Settings struct {
	AllowTracking bool   `bson:"allow_tracking" json:"allow_tracking"`
	Password      string `bson:"password,omitempty" json:"password,omitempty"`
	CustomDomain  string `bson:"custom_domain,omitempty" json:"custom_domain,omitempty"`
}

// ArchivedContent is a previously active variant together with the time it
// was superseded.
type ArchivedContent struct {
	Content      Content   `bson:"content" json:"content"`
	SupersededAt time.Time `bson:"superseded_at" json:"superseded_at"`
}

// Record is the persistent entity behind one printed code. ID and ImageRef
// are assigned at creation and never change afterwards; the referent changes
// by swapping ActiveContent.
type Record struct {
	ID            string            `bson:"_id" json:"id"`
	Title         string            `bson:"title" json:"title"`
	ImageRef      string            `bson:"image_ref" json:"image_ref"`
	ActiveContent Content           `bson:"active_content" json:"active_content"`
	ScanCount     int64             `bson:"scan_count" json:"scan_count"`
	LastScannedAt *time.Time        `bson:"last_scanned_at,omitempty" json:"last_scanned_at,omitempty"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	History       []ArchivedContent `bson:"history" json:"history,omitempty"`
	Active        bool              `bson:"active" json:"active"`
	Settings      Settings          `bson:"settings" json:"settings"`
}

// SwapContent archives the currently active variant and installs next in its
// place. The history append and the trim to HistoryLimit happen together with
// the swap, so a record can never exceed the bound. History is ordered newest
// first.
func (r *Record) SwapContent(next Content, now time.Time) {
	archived := ArchivedContent{
		Content:      r.ActiveContent,
		SupersededAt: now,
	}

	r.History = append([]ArchivedContent{archived}, r.History...)
	if len(r.History) > HistoryLimit {
		r.History = r.History[:HistoryLimit]
	}

	next.LastUpdated = now
	r.ActiveContent = next
}

// RecordScan bumps the usage counters for a counted access.
func (r *Record) RecordScan(now time.Time) {
	r.ScanCount++
	r.LastScannedAt = &now
}

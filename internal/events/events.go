// Package events defines the domain events published by the HTTP layer and consumed by cmd/consumer.
package events

import "time"

// Topics.
const (
	TopicShortLinkCreated  = "shortlink.created"
	TopicShortLinkResolved = "shortlink.resolved"
	TopicBarcodeServed     = "barcode.served"
)

// ShortLinkCreated is emitted when a create request persists a new short link.
type ShortLinkCreated struct {
	ShortLinkID int64     `json:"shortLinkId"`
	Token       string    `json:"token"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// ShortLinkResolved is emitted when a token is redirected.
type ShortLinkResolved struct {
	Token      string    `json:"token"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}

// BarcodeServed is emitted when a barcode image is returned.
type BarcodeServed struct {
	Token     string    `json:"token"`
	ServedAt  time.Time `json:"servedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

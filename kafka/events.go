package kafka

import "time"

// TopicCatalogEvents is the topic carrying all product lifecycle events.
const TopicCatalogEvents = "catalog.products"

// ProductEvent announces a product lifecycle change (created, updated,
// deleted).
type ProductEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku,omitempty"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

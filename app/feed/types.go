package feed

import "time"

// Metadata holds channel-level feed fields.
type Metadata struct {
	Title       string
	Link        string
	Description string
}

// Item is one normalized feed entry. Title and link are the minimum
// viable item; entries lacking both are dropped during parsing.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt *time.Time
}

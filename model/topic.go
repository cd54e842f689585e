package model

import "time"

// TopicStatus drives feed visibility. A freshly created topic carries no status
// at all (NULL) until the author explicitly saves or publishes it.
type TopicStatus string

const (
	StatusTemp    TopicStatus = "temp"    // draft, visible only to its author
	StatusPublish TopicStatus = "publish" // visible in the public feed
)

// Topic is a single authored content item. Content holds the serialized block
// document as an opaque string; decoding happens in internal/content.
type Topic struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	AuthorID  uint64       `gorm:"not null;index" json:"author"`
	Title     *string      `gorm:"size:200" json:"title"`
	Content   *string      `gorm:"type:text" json:"content"`
	Category  *string      `gorm:"size:50;index" json:"category"`
	Thumbnail *string      `gorm:"size:512" json:"thumbnail"`
	Status    *TopicStatus `gorm:"size:20;index" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Author    User         `gorm:"foreignKey:AuthorID" json:"author_info,omitempty"`
}

// HasStatus reports whether the topic currently carries the given status.
func (t *Topic) HasStatus(s TopicStatus) bool {
	return t.Status != nil && *t.Status == s
}

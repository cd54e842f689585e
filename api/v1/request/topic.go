package request

import "topichub/internal/content"

// PersistTopicRequest is the JSON body for saving or publishing a topic.
// Thumbnail holds an already-resolved public URL; fresh image files arrive via
// the multipart form variant instead (see TopicAPI.Persist).
type PersistTopicRequest struct {
	Title     *string         `json:"title"`
	Content   []content.Block `json:"content"`
	Category  *string         `json:"category" binding:"omitempty,category"`
	Thumbnail *string         `json:"thumbnail"`
	Status    string          `json:"status" binding:"required,oneof=temp publish"`
}

// PersistTopicForm is the multipart variant; Content carries the serialized
// block document as a string and the image travels as the "thumbnail" file part.
type PersistTopicForm struct {
	Title     string `form:"title"`
	Content   string `form:"content"`
	Category  string `form:"category" binding:"omitempty,category"`
	Thumbnail string `form:"thumbnail_url"`
	Status    string `form:"status" binding:"required,oneof=temp publish"`
}

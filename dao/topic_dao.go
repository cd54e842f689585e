package dao

import (
	"topichub/model"

	"gorm.io/gorm"
)

type TopicDAO struct {
	db *gorm.DB
}

func NewTopicDAO(db *gorm.DB) *TopicDAO {
	return &TopicDAO{db: db}
}

// Create inserts the topic row. Used with an all-NULL row when authoring begins,
// so the id exists before any field is edited.
func (dao *TopicDAO) Create(topic *model.Topic) error {
	return dao.db.Create(topic).Error
}

// FindByID fetches a single topic with its author preloaded.
func (dao *TopicDAO) FindByID(id uint64) (*model.Topic, error) {
	var topic model.Topic
	err := dao.db.Preload("Author").First(&topic, id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// UpdateFields patches the row identified by id. A map is used instead of a
// struct so NULL values (cleared thumbnail, cleared title) are written through.
func (dao *TopicDAO) UpdateFields(id uint64, fields map[string]interface{}) error {
	return dao.db.Model(&model.Topic{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the row and reports how many rows matched, so callers can tell
// a missing id apart from a successful delete.
func (dao *TopicDAO) Delete(id uint64) (int64, error) {
	res := dao.db.Delete(&model.Topic{}, id)
	return res.RowsAffected, res.Error
}

// ListByAuthorAndStatus returns the author's topics in the given status,
// backing the drafts listing.
func (dao *TopicDAO) ListByAuthorAndStatus(authorID uint64, status model.TopicStatus) ([]model.Topic, error) {
	var topics []model.Topic
	err := dao.db.Where("author_id = ? AND status = ?", authorID, status).Find(&topics).Error
	return topics, err
}

// ListPublished returns all published topics, newest first, optionally
// narrowed to an exact category match. Authors are preloaded for feed cards.
func (dao *TopicDAO) ListPublished(category string) ([]model.Topic, error) {
	var topics []model.Topic
	q := dao.db.Preload("Author").Where("status = ?", model.StatusPublish)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("created_at DESC").Find(&topics).Error
	return topics, err
}

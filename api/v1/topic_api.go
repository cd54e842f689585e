package v1

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"topichub/api/v1/request"
	"topichub/internal/content"
	"topichub/model"
	"topichub/service"

	"github.com/gin-gonic/gin"
)

// TopicAPI exposes HTTP handlers for the topic authoring lifecycle and feed.
type TopicAPI struct {
	service *service.TopicService
}

func NewTopicAPI(s *service.TopicService) *TopicAPI {
	return &TopicAPI{service: s}
}

// feedCard is one entry of the published feed: enough for a card without
// shipping the whole block document.
type feedCard struct {
	ID        uint64    `json:"id"`
	Title     *string   `json:"title"`
	Category  *string   `json:"category"`
	Thumbnail *string   `json:"thumbnail"`
	Preview   string    `json:"preview"`
	Author    string    `json:"author_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Begin creates an empty topic row and returns its id so the client can route
// into the editor.
func (t *TopicAPI) Begin(c *gin.Context) {
	topic, err := t.service.BeginAuthoring(c.GetUint64("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": topic.ID, "message": "topic created"})
}

// Get loads a topic for editing or detail display, content decoded into blocks.
func (t *TopicAPI) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}
	topic, blocks, err := t.service.LoadForEditing(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		case errors.Is(err, content.ErrMalformed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "stored content is corrupt"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "content": blocks})
}

// Persist saves (status temp) or publishes (status publish) the topic. JSON
// bodies carry thumbnails as URLs; multipart bodies may attach a fresh image
// as the "thumbnail" file part.
func (t *TopicAPI) Persist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	var in service.PersistInput
	var target model.TopicStatus
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in, target, err = bindPersistForm(c)
	} else {
		in, target, err = bindPersistJSON(c)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thumbnail, err := t.service.Persist(id, c.GetUint64("user_id"), in, target)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToSave):
			c.JSON(http.StatusBadRequest, gin.H{"warning": err.Error()})
		case errors.Is(err, service.ErrPersistInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	message := "draft saved"
	if target == model.StatusPublish {
		message = "topic published"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "thumbnail": thumbnail})
}

func bindPersistJSON(c *gin.Context) (service.PersistInput, model.TopicStatus, error) {
	var req request.PersistTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.PersistInput{}, "", err
	}
	return service.PersistInput{
		Title:        req.Title,
		Blocks:       req.Content,
		Category:     req.Category,
		ThumbnailURL: req.Thumbnail,
	}, model.TopicStatus(req.Status), nil
}

func bindPersistForm(c *gin.Context) (service.PersistInput, model.TopicStatus, error) {
	var form request.PersistTopicForm
	if err := c.ShouldBind(&form); err != nil {
		return service.PersistInput{}, "", err
	}

	in := service.PersistInput{}
	if form.Title != "" {
		in.Title = &form.Title
	}
	if form.Category != "" {
		in.Category = &form.Category
	}
	if form.Thumbnail != "" {
		in.ThumbnailURL = &form.Thumbnail
	}
	if form.Content != "" {
		blocks, err := content.Decode(form.Content)
		if err != nil {
			return service.PersistInput{}, "", err
		}
		in.Blocks = blocks
	}

	// A fresh image wins over a carried-over URL. The part is read into
	// memory and closed here so the handle never outlives the request.
	if header, err := c.FormFile("thumbnail"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			return service.PersistInput{}, "", err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return service.PersistInput{}, "", err
		}
		in.PendingFile = &service.PendingFile{Name: header.Filename, Body: bytes.NewReader(data)}
		in.ThumbnailURL = nil
	}

	return in, model.TopicStatus(form.Status), nil
}

// Delete removes the caller's topic and its thumbnail blob.
func (t *TopicAPI) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}
	if err := t.service.Delete(id, c.GetUint64("user_id")); err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		case errors.Is(err, service.ErrNotAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "topic deleted"})
}

// ListPublished returns the public feed as cards, newest first.
func (t *TopicAPI) ListPublished(c *gin.Context) {
	topics, err := t.service.ListPublished(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	cards := make([]feedCard, 0, len(topics))
	for i := range topics {
		topic := &topics[i]
		preview := ""
		if topic.Content != nil {
			preview = content.ExtractText(*topic.Content, content.PreviewMaxChars)
		}
		cards = append(cards, feedCard{
			ID:        topic.ID,
			Title:     topic.Title,
			Category:  topic.Category,
			Thumbnail: topic.Thumbnail,
			Preview:   preview,
			Author:    topic.Author.DisplayName(),
			CreatedAt: topic.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"topics": cards})
}

// ListDrafts returns the caller's in-progress topics plus a count for the
// editor badge.
func (t *TopicAPI) ListDrafts(c *gin.Context) {
	drafts, err := t.service.ListDrafts(c.GetUint64("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "count": len(drafts)})
}

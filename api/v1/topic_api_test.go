package v1

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	myvalidator "topichub/internal/validator"
	"topichub/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category", myvalidator.IsCategory)
	}
}

func multipartContext(t *testing.T, fields map[string]string, fileField, fileName string, fileBody []byte) *gin.Context {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPut, "/topics/1", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req
	return c
}

func TestBindPersistFormBuffersThumbnail(t *testing.T) {
	c := multipartContext(t, map[string]string{
		"title":  "with image",
		"status": "temp",
	}, "thumbnail", "cover.png", []byte("png-bytes"))

	in, target, err := bindPersistForm(c)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTemp, target)
	require.NotNil(t, in.Title)
	assert.Equal(t, "with image", *in.Title)
	require.NotNil(t, in.PendingFile)
	assert.Equal(t, "cover.png", in.PendingFile.Name)

	// The pending file must stay readable after the multipart form and its
	// temp files are torn down; binding buffers the part and closes it.
	require.NotNil(t, c.Request.MultipartForm)
	require.NoError(t, c.Request.MultipartForm.RemoveAll())
	data, err := io.ReadAll(in.PendingFile.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestBindPersistFormFileOverridesURL(t *testing.T) {
	c := multipartContext(t, map[string]string{
		"status":        "publish",
		"thumbnail_url": "https://files.topichub.dev/topics/old.jpg",
	}, "thumbnail", "new.jpg", []byte("fresh"))

	in, target, err := bindPersistForm(c)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublish, target)
	assert.Nil(t, in.ThumbnailURL)
	require.NotNil(t, in.PendingFile)
	assert.Equal(t, "new.jpg", in.PendingFile.Name)
}

func TestBindPersistFormWithoutFile(t *testing.T) {
	c := multipartContext(t, map[string]string{
		"status":        "temp",
		"category":      "hot-issue",
		"thumbnail_url": "https://files.topichub.dev/topics/keep.jpg",
	}, "", "", nil)

	in, target, err := bindPersistForm(c)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTemp, target)
	assert.Nil(t, in.PendingFile)
	require.NotNil(t, in.ThumbnailURL)
	assert.Equal(t, "https://files.topichub.dev/topics/keep.jpg", *in.ThumbnailURL)
	require.NotNil(t, in.Category)
	assert.Equal(t, "hot-issue", *in.Category)
}

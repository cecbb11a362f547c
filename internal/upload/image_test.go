package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="post_image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["post_image"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSaverStoresImage(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, "post-images/")
	saver.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }

	saved, err := saver.Save(fileHeader(t, "Sunset.PNG", "image/png", pngBytes(t, 4, 3)))
	require.NoError(t, err)

	assert.Equal(t, 4, saved.Width)
	assert.Equal(t, 3, saved.Height)
	assert.Regexp(t, `^/post-images/20250102-[0-9a-f-]{36}\.png$`, saved.URL)
	assert.Equal(t, filepath.Join(dir, saved.FileName), saved.Path)

	_, err = os.Stat(saved.Path)
	require.NoError(t, err)

	require.NoError(t, saver.Remove(saved))
	_, err = os.Stat(saved.Path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, saver.Remove(saved), "removing twice is not an error")
}

func TestSaverRejectsNonImages(t *testing.T) {
	saver := NewSaver(t.TempDir(), "/post-images")

	_, err := saver.Save(fileHeader(t, "notes.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = saver.Save(fileHeader(t, "fake.png", "image/png", []byte("not really a png")))
	assert.ErrorIs(t, err, ErrImageInvalid)

	entries, err := os.ReadDir(saver.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

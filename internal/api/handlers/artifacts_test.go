package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Trevorton27/voice-app/internal/artifact"
	"github.com/Trevorton27/voice-app/internal/storage"
)

// fakeGateway is an in-memory storage.Gateway for handler tests.
type fakeGateway struct {
	objects   []storage.Object
	listErr   error
	uploadErr error

	uploads []storage.UploadRequest
	nextTS  int64
}

func (f *fakeGateway) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeGateway) Upload(ctx context.Context, req storage.UploadRequest) (*storage.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, req)
	f.nextTS++
	name := fmt.Sprintf("%s/%d-%s", req.Prefix, 1756380000000+f.nextTS, req.OriginalName)
	return &storage.UploadResult{
		ObjectName: name,
		SignedURL:  "https://signed.example/" + name,
		PublicURL:  "https://public.example/" + name,
	}, nil
}

func (f *fakeGateway) SignedReadURL(objectName string) (string, error) {
	return "https://signed.example/" + objectName, nil
}

func (f *fakeGateway) Bucket() string { return "test-bucket" }

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestListEmptyBucket(t *testing.T) {
	h := NewArtifactHandler(&fakeGateway{}, nil, "speeches")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/artifacts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"files":[]}`, rec.Body.String())
}

func TestListMapsMetadataAndSortsNewestFirst(t *testing.T) {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	gw := &fakeGateway{objects: []storage.Object{
		{
			Name:     "speeches/100-old.mp3",
			Created:  older,
			Metadata: artifact.Metadata("id-old", "old text", "old.mp3"),
			ReadURL:  "https://signed.example/speeches/100-old.mp3",
		},
		{
			// legacy object written before metadata support
			Name:    "speeches/200-legacy.mp3",
			Created: newer,
			ReadURL: "https://signed.example/speeches/200-legacy.mp3",
		},
	}}
	h := NewArtifactHandler(gw, nil, "speeches")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/artifacts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK    bool                `json:"ok"`
		Files []artifact.Artifact `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Len(t, resp.Files, 2)

	// newest first
	assert.Equal(t, "legacy", resp.Files[0].ID, "legacy id comes from the object name")
	assert.Equal(t, "200-legacy", resp.Files[0].Text)
	assert.Equal(t, artifact.StatusComplete, resp.Files[0].Status)

	assert.Equal(t, "id-old", resp.Files[1].ID)
	assert.Equal(t, "old text", resp.Files[1].Text)
	assert.Equal(t, "https://signed.example/speeches/100-old.mp3", resp.Files[1].ReadURL)
}

func TestListStorageNotConfigured(t *testing.T) {
	storeErr := errors.New("missing required env vars: GCS_BUCKET")
	h := NewArtifactHandler(nil, storeErr, "speeches")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/artifacts", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "GCS_BUCKET")
}

func TestListProviderError(t *testing.T) {
	h := NewArtifactHandler(&fakeGateway{listErr: errors.New("quota exceeded")}, nil, "speeches")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/artifacts", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestUploadScenario(t *testing.T) {
	gw := &fakeGateway{}
	h := NewArtifactHandler(gw, nil, "speeches")

	body, contentType := multipartBody(t,
		map[string]string{"id": "abc123", "text": "hello world", "prefix": "speeches"},
		"file", "clip.mp3", []byte("fake-mp3"))
	req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Regexp(t, `^speeches/\d+-clip\.mp3$`, resp.Name)
	assert.Equal(t, "abc123", resp.ID)
	assert.Equal(t, "hello world", resp.Text)
	assert.NotEmpty(t, resp.URL)
	assert.NotEmpty(t, resp.PublicURL)

	require.Len(t, gw.uploads, 1)
	up := gw.uploads[0]
	assert.Equal(t, "speeches", up.Prefix)
	assert.Equal(t, "clip.mp3", up.OriginalName)
	assert.Equal(t, "abc123", up.Metadata[artifact.MetaID])
	assert.Equal(t, "hello world", up.Metadata[artifact.MetaText])
	assert.Equal(t, artifact.EncodeTextMetadata("hello world"), up.Metadata[artifact.MetaTextB64])
	assert.Equal(t, "clip.mp3", up.Metadata[artifact.MetaOriginalName])
}

func TestUploadMissingFile(t *testing.T) {
	h := NewArtifactHandler(&fakeGateway{}, nil, "speeches")

	body, contentType := multipartBody(t, map[string]string{"text": "orphan"}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"No file provided (field \"file\")"}`, rec.Body.String())
}

func TestUploadDefaultsAndFallbacks(t *testing.T) {
	gw := &fakeGateway{}
	h := NewArtifactHandler(gw, nil, "speeches")

	// no id, no text, no prefix; filename needs sanitizing
	body, contentType := multipartBody(t, nil, "file", "my voice note.mp3", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, gw.uploads, 1)
	assert.Equal(t, "speeches", gw.uploads[0].Prefix, "prefix falls back to the default folder")
	assert.Equal(t, "my-voice-note.mp3", gw.uploads[0].OriginalName)

	// id derived from the object name, text from the stripped filename
	assert.Regexp(t, `^speeches/\d+-my-voice-note\.mp3$`, resp.Name)
	assert.Equal(t, artifact.DeriveIDFromObjectName(resp.Name), resp.ID)
	assert.Equal(t, "my-voice-note", resp.Text)

	// id/text metadata omitted when the client sent none
	_, hasID := gw.uploads[0].Metadata[artifact.MetaID]
	assert.False(t, hasID)
}

func TestUploadTrimsPrefixSlashes(t *testing.T) {
	gw := &fakeGateway{}
	h := NewArtifactHandler(gw, nil, "speeches")

	body, contentType := multipartBody(t, map[string]string{"prefix": "/uploads/"}, "file", "a.mp3", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, gw.uploads, 1)
	assert.Equal(t, "uploads", gw.uploads[0].Prefix)
}

func TestUploadProviderError(t *testing.T) {
	h := NewArtifactHandler(&fakeGateway{uploadErr: errors.New("backend unreachable")}, nil, "speeches")

	body, contentType := multipartBody(t, nil, "file", "a.mp3", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend unreachable")
}

func TestUploadDistinctNamesForSameFilename(t *testing.T) {
	gw := &fakeGateway{}
	h := NewArtifactHandler(gw, nil, "speeches")

	names := map[string]bool{}
	for i := 0; i < 2; i++ {
		body, contentType := multipartBody(t, nil, "file", "clip.mp3", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Upload(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp uploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		names[resp.Name] = true
	}
	assert.Len(t, names, 2, "same filename twice must produce two distinct object names")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SILAMEAS/Record-Report/pkg/record"
	memoryrepo "github.com/SILAMEAS/Record-Report/pkg/record/repo/memory"
	memorystorage "github.com/SILAMEAS/Record-Report/pkg/record/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, record.Service) {
	t.Helper()

	svc, err := record.New(
		record.WithRepository(memoryrepo.New()),
		record.WithBlobStore(memorystorage.New("content-images")),
	)
	require.NoError(t, err)

	server := httptest.NewServer(NewContentHandler(svc).Routes())
	t.Cleanup(server.Close)
	return server, svc
}

type formFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doMultipart(t *testing.T, method, url string, fields map[string]string, files ...formFile) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, fields, files...)
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreateRecordEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doMultipart(t, http.MethodPost, server.URL+"/",
		map[string]string{"title": "A title", "description": "A description"},
		formFile{field: "main_image", name: "photo.jpg", contentType: "image/jpeg", data: []byte("jpeg-bytes")},
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result record.SaveResult
	decodeJSON(t, resp, &result)
	require.NotNil(t, result.Record)
	assert.Equal(t, "A title", result.Record.Title)
	require.NotNil(t, result.Record.MainImage)
	assert.Contains(t, *result.Record.MainImage, "-main.jpg")
	assert.Nil(t, result.Record.Thumbnail)
	assert.Empty(t, result.Warnings)
}

func TestCreateRecordEndpointValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doMultipart(t, http.MethodPost, server.URL+"/",
		map[string]string{"title": "only a title"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "Title and description are required", errResp.Message)
}

func TestGetRecordEndpoint(t *testing.T) {
	server, svc := newTestServer(t)

	created, err := svc.CreateRecord(context.Background(), record.CreateRecordRequest{
		Title:       "stored",
		Description: "fetch me",
	})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/" + created.Record.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got record.Record
	decodeJSON(t, resp, &got)
	assert.Equal(t, created.Record.ID, got.ID)
	assert.Equal(t, "stored", got.Title)
}

func TestGetRecordEndpointNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/8f1d7f5e-0a0b-4c6d-9e2f-3a4b5c6d7e8f")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetRecordEndpointInvalidID(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/not-a-uuid")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "Invalid record ID", errResp.Message)
}

func TestUpdateRecordEndpoint(t *testing.T) {
	server, svc := newTestServer(t)

	created, err := svc.CreateRecord(context.Background(), record.CreateRecordRequest{
		Title:       "before",
		Description: "original text",
		MainImage:   &record.ImageUpload{FileName: "photo.jpg", ContentType: "image/jpeg", Data: []byte("bytes")},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Record.MainImage)

	resp := doMultipart(t, http.MethodPut, server.URL+"/"+created.Record.ID.String(),
		map[string]string{
			"title":               "after",
			"description":         "updated text",
			"existing_main_image": *created.Record.MainImage,
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result record.SaveResult
	decodeJSON(t, resp, &result)
	assert.Equal(t, "after", result.Record.Title)
	require.NotNil(t, result.Record.MainImage)
	assert.Equal(t, *created.Record.MainImage, *result.Record.MainImage)
}

func TestUpdateRecordEndpointNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doMultipart(t, http.MethodPut, server.URL+"/8f1d7f5e-0a0b-4c6d-9e2f-3a4b5c6d7e8f",
		map[string]string{"title": "ghost", "description": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteRecordEndpoint(t *testing.T) {
	server, svc := newTestServer(t)

	created, err := svc.CreateRecord(context.Background(), record.CreateRecordRequest{
		Title:       "doomed",
		Description: "delete me",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/"+created.Record.ID.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]bool
	decodeJSON(t, resp, &result)
	assert.True(t, result["success"])

	// A second delete reports not found.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListRecordsEndpoint(t *testing.T) {
	server, svc := newTestServer(t)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateRecord(context.Background(), record.CreateRecordRequest{
			Title:       fmt.Sprintf("record %d", i),
			Description: "list me",
		})
		require.NoError(t, err)
	}

	resp, err := http.Get(server.URL + "/?page=1&limit=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page record.RecordPage
	decodeJSON(t, resp, &page)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
}

func TestListRecordsEndpointSearch(t *testing.T) {
	server, svc := newTestServer(t)

	_, err := svc.CreateRecord(context.Background(), record.CreateRecordRequest{
		Title: "Summer Trip", Description: "beach photos"})
	require.NoError(t, err)
	_, err = svc.CreateRecord(context.Background(), record.CreateRecordRequest{
		Title: "Groceries", Description: "weekly run"})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/?search=trip")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page record.RecordPage
	decodeJSON(t, resp, &page)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Summer Trip", page.Records[0].Title)
}

func TestListRecordsEndpointBadParamsFallBack(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/?page=zero&limit=-3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page record.RecordPage
	decodeJSON(t, resp, &page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, record.DefaultListLimit, page.Limit)
}

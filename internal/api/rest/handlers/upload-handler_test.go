package handlers

import (
	"strings"
	"testing"

	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_PreUploadThenSubmit(t *testing.T) {
	f := newFixture(t)

	created := f.do(t, jsonRequest("POST", "/api/uploads", nil), nil)
	require.Equal(t, fiber.StatusCreated, created.Status)
	var up dto.UploadCreatedResponse
	created.data(t, &up)
	assert.Equal(t, string(upload.StatusIdle), up.Status)

	put := f.do(t, multipartRequest(t, "PUT", "/api/uploads/"+up.UploadID, nil,
		&resume{name: "cv.pdf", contentType: upload.MimePDF, size: 2048}), nil)
	require.Equal(t, fiber.StatusOK, put.Status, string(put.Body))
	var snap upload.Snapshot
	put.data(t, &snap)
	assert.Equal(t, upload.StatusSuccess, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	assert.NotEmpty(t, snap.URL)

	fields := janeDoe("tok-pre")
	fields["upload_id"] = up.UploadID
	submit := f.do(t, multipartRequest(t, "POST", "/api/applications", fields, nil), nil)
	require.Equal(t, fiber.StatusCreated, submit.Status, string(submit.Body))
	assert.Equal(t, 1, f.store.Calls())

	// a submitted upload is released
	gone := f.do(t, jsonRequest("GET", "/api/uploads/"+up.UploadID, nil), nil)
	assert.Equal(t, fiber.StatusNotFound, gone.Status)
}

func TestUpload_RejectedFileStaysIdle(t *testing.T) {
	f := newFixture(t)
	id, _ := f.uploads.Create()

	put := f.do(t, multipartRequest(t, "PUT", "/api/uploads/"+id, nil,
		&resume{name: "big.pdf", contentType: upload.MimePDF, size: 6_000_000}), nil)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, put.Status)
	assert.Zero(t, f.store.Calls())

	status := f.do(t, jsonRequest("GET", "/api/uploads/"+id, nil), nil)
	require.Equal(t, fiber.StatusOK, status.Status)
	var snap upload.Snapshot
	status.data(t, &snap)
	assert.Equal(t, upload.StatusIdle, snap.Status)
}

func TestUpload_UnknownID(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, multipartRequest(t, "PUT", "/api/uploads/missing", nil,
		&resume{name: "cv.pdf", contentType: upload.MimePDF, size: 10}), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestUpload_EventsEndOnTerminalState(t *testing.T) {
	f := newFixture(t)
	id, _ := f.uploads.Create()

	put := f.do(t, multipartRequest(t, "PUT", "/api/uploads/"+id, nil,
		&resume{name: "cv.pdf", contentType: upload.MimePDF, size: 10}), nil)
	require.Equal(t, fiber.StatusOK, put.Status)

	events := f.do(t, jsonRequest("GET", "/api/uploads/"+id+"/events", nil), nil)
	require.Equal(t, fiber.StatusOK, events.Status)
	assert.True(t, strings.HasPrefix(events.Header.Get("Content-Type"), "text/event-stream"))
	assert.Contains(t, string(events.Body), "event: upload")
	assert.Contains(t, string(events.Body), `"status":"SUCCESS"`)
}

func TestUpload_ResetForgetsUpload(t *testing.T) {
	f := newFixture(t)
	id, _ := f.uploads.Create()

	resp := f.do(t, jsonRequest("DELETE", "/api/uploads/"+id, nil), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.Status)

	_, ok := f.uploads.Get(id)
	assert.False(t, ok)
}

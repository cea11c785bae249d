//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jsphweid/handex/cmd"
	"github.com/jsphweid/handex/model"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "handex-e2e")
	if err != nil {
		panic(err.Error())
	}
	os.Setenv("STAGING_PATH", dir)

	exitVal := m.Run()

	os.RemoveAll(dir)
	os.Exit(exitVal)
}

// a C major chord over a low C pedal tone
func makeMidiBytes() []byte {
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(960)

	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(0, gomidi.NoteOn(0, 64, 100))
	tr.Add(0, gomidi.NoteOn(0, 67, 100))
	tr.Add(0, gomidi.NoteOn(0, 36, 100))
	tr.Add(960, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOff(0, 64))
	tr.Add(0, gomidi.NoteOff(0, 67))
	tr.Add(0, gomidi.NoteOff(0, 36))
	tr.Close(0)
	mid.Add(tr)

	var buf bytes.Buffer
	if _, err := mid.WriteTo(&buf); err != nil {
		panic(err.Error())
	}
	return buf.Bytes()
}

func createUploadBody(fields map[string]string) (io.Reader, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "chord.mid")
	if err != nil {
		panic(err.Error())
	}
	if _, err := fw.Write(makeMidiBytes()); err != nil {
		panic(err.Error())
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestArrangeAndDownloadE2E(t *testing.T) {
	body, contentType := createUploadBody(map[string]string{
		"maxRightHandNotes": "2",
		"maxLeftHandNotes":  "2",
	})
	req := httptest.NewRequest(http.MethodPost, "/arrange", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	cmd.HandleArrange(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var arranged model.ArrangeResponse
	err := json.Unmarshal(respBody, &arranged)
	assert.NoError(err)
	assert.NotEmpty(arranged.Id)
	assert.Equal(1, arranged.TrackCount)
	assert.Equal(2, arranged.RightHandNotes)
	assert.Equal(2, arranged.LeftHandNotes)
	assert.InDelta(0.5, arranged.Duration, 1e-6)

	router := mux.NewRouter()
	router.HandleFunc("/download/{id}", cmd.HandleDownload).Methods("GET")
	dlReq := httptest.NewRequest(http.MethodGet, "/download/"+arranged.Id, nil)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, dlReq)

	dlResp := dl.Result()
	dlBody, _ := io.ReadAll(dlResp.Body)
	assert.Equal(200, dlResp.StatusCode)

	out, err := smf.ReadFrom(bytes.NewReader(dlBody))
	assert.NoError(err)
	assert.Len(out.Tracks, 3)
}

func TestRejectsWrongExtension(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", "song.wav")
	fw.Write([]byte("not midi"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/arrange", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	cmd.HandleArrange(rec, req)

	resp := rec.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(400, resp.StatusCode)

	var errResp model.ErrorResponse
	assert.NoError(json.Unmarshal(respBody, &errResp))
	assert.Contains(errResp.Error, ".mid")
}

func TestDownloadUnknownIdIs404(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/download/{id}", cmd.HandleDownload).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/download/00000000-0000-0000-0000-000000000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert := assert.New(t)
	assert.Equal(404, rec.Result().StatusCode)
}

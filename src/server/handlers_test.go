package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	app "adminserv/src/app"
	cfg "adminserv/src/configuration"
	db "adminserv/src/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *db.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	media, err := app.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	config := &cfg.Properties{}
	config.Cors.Origins = []string{"http://localhost:3000"}
	config.Media.MaxBytes = 5 * 1024 * 1024

	handler := NewHandler(store, media, app.UploadPolicy{MaxBytes: config.Media.MaxBytes})
	return NewRouter(config, handler), store
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateAndListUsers(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/users", gin.H{
		"name":    "Mary",
		"email":   "mary@example.com",
		"country": "Egypt",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created db.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.ID.IsZero())

	w = performJSON(router, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []db.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)
	assert.Equal(t, "Mary", users[0].Name)
}

func TestCreateUserValidationError(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/users", gin.H{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestCreateBillDefaultState(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/bills", gin.H{
		"customerName": "Ali",
		"amount":       2,
		"billPrice":    100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created db.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, db.BillStatePending, created.State)
}

func TestUpdateBillKeepsUntouchedFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/bills", gin.H{
		"customerName": "Ali",
		"amount":       2,
		"billPrice":    100,
		"discription":  "monthly call",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created db.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performJSON(router, http.MethodPut, "/api/bills/"+created.ID.Hex(), gin.H{"state": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated db.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, db.BillStatePaid, updated.State)
	assert.Equal(t, "Ali", updated.CustomerName)
	assert.Equal(t, float64(2), updated.Amount)
	assert.Equal(t, float64(100), updated.BillPrice)
	assert.Equal(t, "monthly call", updated.Description)
}

func TestUpdateUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)

	// valid hex, nonexistent record
	w := performJSON(router, http.MethodPut, "/api/users/656f00000000000000000000", gin.H{"name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// malformed id behaves the same as a missing record
	w = performJSON(router, http.MethodPut, "/api/users/not-an-id", gin.H{"name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTwice(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/users", gin.H{
		"name":    "Mary",
		"email":   "mary@example.com",
		"country": "Egypt",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created db.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performJSON(router, http.MethodDelete, "/api/users/"+created.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodDelete, "/api/users/"+created.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodPost, "/api/bills", gin.H{
		"customerName": "Ali",
		"amount":       2,
		"billPrice":    100,
		"dateOfCall":   "2024-01-01",
		"billDate":     "2024-01-02",
		"state":        "paid",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created db.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, db.BillStatePaid, created.State)
	require.NotNil(t, created.DateOfCall)
	assert.Equal(t, "2024-01-01", created.DateOfCall.Format("2006-01-02"))

	w = performJSON(router, http.MethodGet, "/api/bills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bills []db.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bills))
	require.Len(t, bills, 1)
	assert.Equal(t, created.ID, bills[0].ID)

	w = performJSON(router, http.MethodDelete, "/api/bills/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/api/bills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bills))
	assert.Empty(t, bills)
}

func TestImageUploadAndRetrieve(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := []byte("fake jpeg bytes")
	body, contentType := multipartUpload(t, "avatar.jpeg", "image/jpeg", payload)

	req := httptest.NewRequest(http.MethodPost, "/api/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	filename := resp["filename"]
	require.NotEmpty(t, filename)
	assert.NotEqual(t, "avatar.jpeg", filename)

	w = performJSON(router, http.MethodGet, "/images/users/"+filename, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestImageUploadNoFile(t *testing.T) {
	router, _ := newTestRouter(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No file uploaded", resp["error"])
}

func TestImageUploadUnsupportedType(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestImageUploadTooLarge(t *testing.T) {
	router, _ := newTestRouter(t)

	oversized := bytes.Repeat([]byte{0xff}, 6*1024*1024)
	body, contentType := multipartUpload(t, "big.jpeg", "image/jpeg", oversized)
	req := httptest.NewRequest(http.MethodPost, "/api/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRetrieveMissingImage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodGet, "/images/users/image-404.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := performJSON(router, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

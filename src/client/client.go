// Package client is the typed counterpart of the browser application: an API
// client for the REST endpoints, the keyed in-memory collection the pages
// render from, and view-models with explicit state transitions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	app "adminserv/src/app"
	db "adminserv/src/repository"
)

// Client talks to the API service. It performs no retries; a failed request
// surfaces as an error and nothing else.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response: the status code plus the server's message
// string. The API exposes no richer error taxonomy.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) ListUsers(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

// CreateUser validates the form, uploads the image first when one is
// attached, and embeds the returned filename in the create call.
func (c *Client) CreateUser(ctx context.Context, form UserForm) (*db.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	imageName := ""
	if form.Image != nil {
		name, err := c.UploadImage(ctx, form.ImageName, form.Image)
		if err != nil {
			return nil, err
		}
		imageName = name
	}

	user := db.User{
		Name:    form.Name,
		Email:   form.Email,
		Country: form.Country,
		Image:   imageName,
	}
	var created db.User
	if err := c.do(ctx, http.MethodPost, "/api/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, patch db.UserPatch) (*db.User, error) {
	var updated db.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}

func (c *Client) ListBills(ctx context.Context) ([]db.Bill, error) {
	var bills []db.Bill
	err := c.do(ctx, http.MethodGet, "/api/bills", nil, &bills)
	return bills, err
}

func (c *Client) CreateBill(ctx context.Context, form BillForm) (*db.Bill, error) {
	bill, err := form.Build()
	if err != nil {
		return nil, err
	}
	var created db.Bill
	if err := c.do(ctx, http.MethodPost, "/api/bills", bill, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateBill(ctx context.Context, id string, patch db.BillPatch) (*db.Bill, error) {
	var updated db.Bill
	if err := c.do(ctx, http.MethodPut, "/api/bills/"+id, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteBill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bills/"+id, nil, nil)
}

// UploadImage posts one file under the "image" multipart field and returns
// the server-generated filename.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", app.ContentTypeFor(filename))
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("can not build upload body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("can not read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("can not finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/image", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeAPIError(resp)
	}
	var payload struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("can not decode upload response: %w", err)
	}
	return payload.Filename, nil
}

// ImageURL builds the stable retrieval URL for a stored filename, the same
// way the browser constructs <img> sources.
func (c *Client) ImageURL(filename string) string {
	return c.baseURL + "/images/users/" + filename
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("can not marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("can not decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}

package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultEndpoint is the public ImageKit upload API.
const DefaultEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

const defaultTimeout = 30 * time.Second

// Config holds credentials for the upload API.
type Config struct {
	Endpoint   string
	PrivateKey string
	Folder     string
	HTTPClient *http.Client
}

// UploadResult is the subset of the upload response the application uses.
type UploadResult struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Client uploads files to the ImageKit media library.
type Client struct {
	endpoint   string
	privateKey string
	folder     string
	httpClient *http.Client
}

// New constructs a Client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("imagekit: private key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		endpoint:   endpoint,
		privateKey: cfg.PrivateKey,
		folder:     cfg.Folder,
		httpClient: httpClient,
	}, nil
}

// Upload streams the file content to the media library and returns the
// hosted URL. The private key authenticates via HTTP basic auth with an
// empty password, as the upload API expects.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (*UploadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fileName == "" {
		return nil, errors.New("imagekit: file name is required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("imagekit: build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("imagekit: copy content: %w", err)
	}

	if err := writer.WriteField("fileName", fileName); err != nil {
		return nil, fmt.Errorf("imagekit: build form: %w", err)
	}
	if c.folder != "" {
		if err := writer.WriteField("folder", c.folder); err != nil {
			return nil, fmt.Errorf("imagekit: build form: %w", err)
		}
	}
	if err := writer.WriteField("useUniqueFileName", "true"); err != nil {
		return nil, fmt.Errorf("imagekit: build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("imagekit: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("imagekit: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagekit: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("imagekit: upload failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("imagekit: decode response: %w", err)
	}
	if result.URL == "" {
		return nil, errors.New("imagekit: response missing url")
	}

	return &result, nil
}

package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Client is the media store adapter: bytes in, public retrieval URL out.
// Every upload is an independent call; there is no batch atomicity.
type Client interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	Ping(ctx context.Context) error
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type cloudinaryClient struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
}

func NewClient(baseURL, cloudName, apiKey, apiSecret string, timeout time.Duration) Client {
	return &cloudinaryClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
	}
}

// Upload posts a signed multipart request to the upload endpoint and returns
// the issued secure URL.
func (c *cloudinaryClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file payload: %w", err)
	}

	_ = writer.WriteField("api_key", c.apiKey)
	_ = writer.WriteField("timestamp", timestamp)
	_ = writer.WriteField("signature", c.sign(timestamp))

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/auto/upload", c.baseURL, c.cloudName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}

	if resp.StatusCode >= 400 || uploaded.SecureURL == "" {
		return "", fmt.Errorf("media upload rejected (status %d): %s", resp.StatusCode, uploaded.Error.Message)
	}

	return uploaded.SecureURL, nil
}

// Ping hits the provider's ping endpoint; used by the health check.
func (c *cloudinaryClient) Ping(ctx context.Context) error {

	pingURL := fmt.Sprintf("%s/%s/ping", c.baseURL, c.cloudName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}

	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("media store unreachable: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("media store ping returned status %d", resp.StatusCode)
	}

	return nil
}

// sign produces the request signature the API expects: SHA-1 over the signed
// params concatenated with the API secret.
func (c *cloudinaryClient) sign(timestamp string) string {
	payload := fmt.Sprintf("timestamp=%s%s", timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(payload))

	return hex.EncodeToString(sum[:])
}

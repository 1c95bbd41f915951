package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// formField is a plain multipart value; order is preserved on the wire.
type formField struct {
	name  string
	value string
}

// formFile is the single binary part of a multipart request.
type formFile struct {
	field    string
	filename string
	data     []byte
}

// encodeMultipart builds a multipart/form-data body.
func encodeMultipart(fields []formField, file formFile) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("could not write form field %s: %w", f.name, err)
		}
	}

	part, err := writer.CreateFormFile(file.field, file.filename)
	if err != nil {
		return nil, "", fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(file.data); err != nil {
		return nil, "", fmt.Errorf("could not copy file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("could not close writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

// doRequest performs a single HTTP exchange and returns the body of a 2xx response.
// Every failure is reported as *Error; there are no retries.
func (c *Client) doRequest(ctx context.Context, op, method, endpoint string, body io.Reader, contentType string) ([]byte, int, error) {
	url := c.resolveURL(endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, &Error{Op: op, Err: fmt.Errorf("could not create request: %w", err)}
	}

	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		c.logger.Warn("gateway_request_failed", "op", op, "url", url, "error", err)
		return nil, 0, &Error{Op: op, Err: fmt.Errorf("could not send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("could not read response body: %w", err)}
	}

	c.logger.Debug("gateway_request",
		"op", op,
		"method", method,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration", c.clock.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    parseErrorMessage(respBody),
			Err:        fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	c.captureResponse(endpoint, respBody)
	return respBody, resp.StatusCode, nil
}

// doEnvelope performs a request and unmarshals the {status, message, data} wrapper.
func doEnvelope[T any](ctx context.Context, c *Client, op, method, endpoint string, body io.Reader, contentType string) (*envelope[T], error) {
	respBody, status, err := c.doRequest(ctx, op, method, endpoint, body, contentType)
	if err != nil {
		return nil, err
	}

	var result envelope[T]
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Err: fmt.Errorf("could not unmarshal response: %w", err)}
	}
	return &result, nil
}

// doGetJSON performs a GET request and returns the envelope's data.
func doGetJSON[T any](ctx context.Context, c *Client, op, endpoint string) (*T, error) {
	env, err := doEnvelope[T](ctx, c, op, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Package client is the HTTP client used by webhookctl to talk to a
// running webhook receiver.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Health fetches the liveness snapshot.
func (c *Client) Health() (map[string]interface{}, error) {
	return c.getJSON("/health")
}

// Send posts one raw JSON payload to the webhook path.
func (c *Client) Send(webhookPath string, payload []byte) (map[string]interface{}, error) {
	req, err := http.NewRequest("POST", c.baseURL+webhookPath, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingest failed with status %d", resp.StatusCode)
	}

	return decodeObject(resp.Body)
}

// Latest fetches the latest record for a key. keyspace is "messages" or
// "sessions". The raw JSON body is returned as stored.
func (c *Client) Latest(keyspace, key string) (json.RawMessage, error) {
	resp, err := c.client.Get(c.baseURL + "/" + keyspace + "/" + url.PathEscape(key) + "/latest")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no record found for %q", key)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// History fetches the retained record sequence for a key, oldest to newest.
func (c *Client) History(keyspace, key string) (map[string]interface{}, error) {
	return c.getJSON("/" + keyspace + "/" + url.PathEscape(key) + "/history")
}

// Delete removes all state for a key.
func (c *Client) Delete(keyspace, key string) (map[string]interface{}, error) {
	req, err := http.NewRequest("DELETE", c.baseURL+"/"+keyspace+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no record found for %q", key)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}

	return decodeObject(resp.Body)
}

// Sessions lists resident session keys (in-memory backend only).
func (c *Client) Sessions(limit int) (map[string]interface{}, error) {
	path := "/sessions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return c.getJSON(path)
}

func (c *Client) getJSON(path string) (map[string]interface{}, error) {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return decodeObject(resp.Body)
}

func decodeObject(r io.Reader) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

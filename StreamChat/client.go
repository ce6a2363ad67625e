package StreamChat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"Crane/Config"

	"github.com/golang-jwt/jwt/v4"
)

const apiBase = "https://chat.stream-io-api.com"

// Client covers the server-side Stream Chat surface we need: minting user
// tokens and managing project channels over the REST API.
type Client struct {
	APIKey     string
	APISecret  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		APIKey:     Config.AppConfig.StreamKey,
		APISecret:  Config.AppConfig.StreamSecret,
		BaseURL:    apiBase,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Enabled() bool { return c.APIKey != "" && c.APISecret != "" }

// UserToken mints a client token for the given user, HS256 signed with the
// API secret per Stream's server token scheme.
func (c *Client) UserToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": streamUserID(userID),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.APISecret))
}

// serverToken authorizes server-to-server REST calls.
func (c *Client) serverToken() (string, error) {
	claims := jwt.MapClaims{"server": true}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.APISecret))
}

func streamUserID(userID uint) string {
	return "user-" + strconv.FormatUint(uint64(userID), 10)
}

// UpsertUser registers or updates the user on Stream's side.
func (c *Client) UpsertUser(userID uint, name string) error {
	payload := map[string]interface{}{
		"users": map[string]interface{}{
			streamUserID(userID): map[string]interface{}{
				"id":   streamUserID(userID),
				"name": name,
			},
		},
	}
	return c.post("/users", payload, nil)
}

// CreateProjectChannel creates (or returns) the messaging channel for a
// project and adds the members. Returns the channel ID.
func (c *Client) CreateProjectChannel(projectID uint, projectName string, memberIDs []uint) (string, error) {
	channelID := fmt.Sprintf("project-%d", projectID)
	members := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, streamUserID(id))
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"name":       projectName,
			"members":    members,
			"created_by": map[string]string{"id": "server"},
		},
	}

	path := fmt.Sprintf("/channels/messaging/%s/query", channelID)
	if err := c.post(path, payload, nil); err != nil {
		return "", err
	}
	return channelID, nil
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	token, err := c.serverToken()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.BaseURL+path+"?api_key="+c.APIKey, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("stream error (%d): %s", resp.StatusCode, string(data))
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

package StreamChat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		APIKey:     "test-key",
		APISecret:  "test-secret",
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestUserToken(t *testing.T) {
	c := testClient("")

	signed, err := c.UserToken(42)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-42", claims["user_id"])
}

func TestCreateProjectChannel(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "jwt", r.Header.Get("Stream-Auth-Type"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"channel":{"id":"project-7"}}`))
	}))
	defer server.Close()

	channelID, err := testClient(server.URL).CreateProjectChannel(7, "Harbor House", []uint{1, 3})
	require.NoError(t, err)
	assert.Equal(t, "project-7", channelID)
	assert.Equal(t, "/channels/messaging/project-7/query", gotPath)

	data := gotBody["data"].(map[string]interface{})
	assert.Equal(t, "Harbor House", data["name"])
	members := data["members"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"user-1", "user-3"}, members)
}

func TestUpsertUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)

		var body map[string]map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Pat", body["users"]["user-9"]["name"])
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	assert.NoError(t, testClient(server.URL).UpsertUser(9, "Pat"))
}

func TestPostSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	err := testClient(server.URL).UpsertUser(1, "x")
	assert.ErrorContains(t, err, "stream error (401)")
}

func TestEnabled(t *testing.T) {
	assert.True(t, testClient("").Enabled())
	assert.False(t, (&Client{APIKey: "only-key"}).Enabled())
}

package didar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/", "secret-key")
}

func TestSaveContactReturnsAssignedID(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"success":true,"data":{"Id":123}}`))
	})

	id, err := client.SaveContact(context.Background(), map[string]string{
		"Email":     "a@x.com",
		"FirstName": "A",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(123), id)
	assert.Equal(t, "/api/contact/save", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "a@x.com", gotPayload["Email"])
}

func TestSaveContactRejectedByAPI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"message":"invalid api key"}`))
	})

	_, err := client.SaveContact(context.Background(), map[string]string{"Email": "a@x.com"})

	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSaveContactHTTPErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.SaveContact(context.Background(), map[string]string{"Email": "a@x.com"})

	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestSaveContactMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.SaveContact(context.Background(), map[string]string{"Email": "a@x.com"})

	require.Error(t, err)
	assert.True(t, IsParse(err))
}

func TestSaveContactUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	client := NewClient(url+"/api/", "secret-key")

	_, err := client.SaveContact(context.Background(), map[string]string{"Email": "a@x.com"})

	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestSearchContactsFullPageHasMore(t *testing.T) {
	var gotReq searchRequest
	contacts := make([]Contact, 2)
	contacts[0] = Contact{ID: 1, Email: "a@x.com"}
	contacts[1] = Contact{ID: 2, Email: "b@x.com"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/contact/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(searchResponse{List: contacts})
	})

	got, hasMore, err := client.SearchContacts(context.Background(), 100, 2)

	require.NoError(t, err)
	assert.Equal(t, contacts, got)
	assert.True(t, hasMore)
	assert.Equal(t, 100, gotReq.From)
	assert.Equal(t, 2, gotReq.Limit)
	assert.NotNil(t, gotReq.Criteria)
}

func TestSearchContactsShortPageEndsData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{List: []Contact{{ID: 1}}})
	})

	got, hasMore, err := client.SearchContacts(context.Background(), 0, 100)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.False(t, hasMore)
}

func TestSearchContactsEmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"List":[]}`))
	})

	got, hasMore, err := client.SearchContacts(context.Background(), 0, 100)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, hasMore)
}

func TestDefaultBaseURLSelectedWhenEmpty(t *testing.T) {
	client := NewClient("", "key")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionbridge/pkg/api"
	"notionbridge/pkg/backend"
)

func TestGetUserInfoToolReturnsProfileJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/user-1", r.URL.Path)
		io.WriteString(w, `{"user_id":"user-1","access_token":"tok"}`)
	}))
	defer ts.Close()

	tool := NewGetUserInfoTool(backend.New(ts.URL, time.Second))
	result, err := tool.Execute(context.Background(), map[string]any{"user_id": "user-1"}, api.UserContext{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text(), `"access_token":"tok"`)
}

func TestGetUserInfoToolBackendFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	tool := NewGetUserInfoTool(backend.New(ts.URL, time.Second))
	result, err := tool.Execute(context.Background(), map[string]any{"user_id": "ghost"}, api.UserContext{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Text(), "Failed to get user info")
}

func TestSaveNotionDataToolPostsRecord(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/user-1/notion", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"saved":true}`)
	}))
	defer ts.Close()

	tool := NewSaveNotionDataTool(backend.New(ts.URL, time.Second))
	result, err := tool.Execute(context.Background(), map[string]any{
		"user_id":        "user-1",
		"content":        "body text",
		"notion_page_id": "p1",
		"summary":        "short",
	}, api.UserContext{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "p1", result.Details["notion_page_id"])
	assert.Equal(t, "body text", gotBody["content"])
	assert.Equal(t, "", gotBody["notion_url"]) // omitted optional fields stay empty
}

func TestBackendToolsRegisterCleanly(t *testing.T) {
	client := backend.New("http://localhost:8080", time.Second)
	r := NewRegistry()
	require.NoError(t, r.Register(NewGetUserInfoTool(client)))
	require.NoError(t, r.Register(NewSaveNotionDataTool(client)))
	assert.Len(t, r.Specs(), 2)
}

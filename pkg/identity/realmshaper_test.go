package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealmshaperClient_ValidateUser(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/permitted-users", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		gotToken = r.Header.Get(HeaderUserToken)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","name":"Realmshaper User"}`))
	}))
	defer server.Close()

	client := NewRealmshaperClient(server.URL)
	caller, err := client.ValidateUser(context.Background(), "some-token")
	require.NoError(t, err)
	assert.Equal(t, "some-token", gotToken)
	assert.Equal(t, "u1", caller.ID)
}

func TestRealmshaperClient_ValidateUser_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token rejected", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewRealmshaperClient(server.URL)
	caller, err := client.ValidateUser(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Nil(t, caller)
	require.True(t, IsValidationError(err))

	validationErr := err.(*ValidationError)
	assert.Equal(t, http.StatusForbidden, validationErr.StatusCode)
	assert.Equal(t, "token rejected", validationErr.Message)
}

func TestRealmshaperClient_ValidateUser_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewRealmshaperClient(server.URL)
	_, err := client.ValidateUser(context.Background(), "some-token")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIterations_ParsesIntegerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("5000\n"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	iterations, err := c.GetIterations(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, 5000, iterations)
}

func TestGetIterations_RejectsUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-a-number"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.GetIterations(context.Background(), "user@example.com")
	require.Error(t, err)
}

func TestLogin_ParsesOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<response><ok uid="1" sessionid="sess-1" token="tok-1" privatekeyenc="deadbeef" iterations="5000"/></response>`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.Login(context.Background(), LoginParams{
		Username:   "user@example.com",
		LoginHash:  "abc123",
		Iterations: 5000,
	})
	require.NoError(t, err)
	require.Equal(t, "1", resp.UID)
	require.Equal(t, "sess-1", resp.SessionID)
	require.Equal(t, "tok-1", resp.Token)
	require.Equal(t, "deadbeef", resp.PrivateKeyEnc)
}

func TestLogin_ParsesErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<response><error cause="unknownemail" message="Unknown email address."/></response>`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), LoginParams{Username: "nobody@example.com"})
	require.Error(t, err)
	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	require.Equal(t, "unknownemail", loginErr.Cause)
}

func TestChangePassword_RecognizesOKMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pwchangeok"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	result, err := c.ChangePassword(context.Background(), SessionCredentials{Token: "t", SessionID: "s"}, "newhash", 5000)
	require.NoError(t, err)
	require.True(t, result.OK)
}

func TestChangePassword_RejectsAnyOtherResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("error"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	result, err := c.ChangePassword(context.Background(), SessionCredentials{}, "newhash", 5000)
	require.NoError(t, err)
	require.False(t, result.OK)
}

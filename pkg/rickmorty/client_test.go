package rickmorty

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(WithBaseURL(srv.URL+"/api"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestCharacter(t *testing.T) {
	var gotPath, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReqID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{"id":1,"name":"Rick Sanchez","status":"Alive","gender":"Male",
			"origin":{"name":"Earth (C-137)","url":"https://rickandmortyapi.com/api/location/1"},
			"location":null,"episode":["https://rickandmortyapi.com/api/episode/1"]}`))
	})

	ch, err := c.Character(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "/api/character/1", gotPath)
	require.NotEmpty(t, gotReqID)
	require.Equal(t, "1", ch.Key())
	require.Equal(t, "Rick Sanchez", *ch.Name)
	require.Equal(t, "Alive", *ch.Status)
	require.Nil(t, ch.Species)
	require.Nil(t, ch.Location)
	require.Equal(t, "Earth (C-137)", ch.Origin.Name)

	// fields the struct does not name still come back out
	out, err := json.Marshal(ch)
	require.NoError(t, err)
	require.Contains(t, string(out), `"episode"`)
}

func TestLocation(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":3,"name":"Citadel of Ricks","type":"Space station","dimension":"unknown"}`))
	})

	loc, err := c.Location(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, "/api/location/3", gotPath)
	require.Equal(t, "3", loc.Key())
	require.Equal(t, "Space station", *loc.Type)
	require.Equal(t, "unknown", *loc.Dimension)
	require.Nil(t, loc.Created)
}

func TestNames(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"info":{"count":3,"pages":1,"next":null,"prev":null},
			"results":[{"name":"Earth (C-137)"},{"name":null},{"name":"Anatomy Park"}]}`))
	})

	names, err := c.Names(context.Background(), Locations, 2)
	require.NoError(t, err)
	require.Equal(t, "/api/location/", gotPath)
	require.Equal(t, "page=2", gotQuery)
	require.Equal(t, []string{"Earth (C-137)", "", "Anatomy Park"}, names)
}

func TestNamesEmptyPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	names, err := c.Names(context.Background(), Characters, 1)
	require.NoError(t, err)
	require.NotNil(t, names)
	require.Empty(t, names)
}

func TestNamesMissingResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"There is nothing here"}`))
	})

	_, err := c.Names(context.Background(), Characters, 99)
	require.ErrorIs(t, err, ErrMissingResults)
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Character not found"}`))
	})

	_, err := c.Character(context.Background(), "9999")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.Contains(t, se.Error(), "Character not found")
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Location(context.Background(), "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode body")
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(WithBaseURL(base))
	require.NoError(t, err)
	_, err = c.Character(context.Background(), "1")
	require.Error(t, err)
}

func TestNewInvalidBaseURL(t *testing.T) {
	_, err := New(WithBaseURL("not a url"))
	require.Error(t, err)

	_, err = New(WithBaseURL("://bad"))
	require.Error(t, err)
}

func TestIDDecoding(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`1`, "1"},
		{`"1"`, "1"},
		{`42`, "42"},
		{`"abc"`, "abc"},
	}

	for _, tt := range tests {
		var id ID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		require.Equal(t, tt.want, id, tt.in)
	}

	var id ID
	require.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestMarshalWithoutRawBody(t *testing.T) {
	loc := &Location{ID: Ptr(ID("7")), Name: Ptr("Immortality Field Resort")}
	out, err := json.Marshal(loc)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"7","name":"Immortality Field Resort","type":null,"dimension":null,"created":null}`, string(out))
}

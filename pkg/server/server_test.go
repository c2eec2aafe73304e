package server

import (
	"flagreg/pkg/flags"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestServer(t *testing.T) *StatusServer {
	f := flags.New()
	f.SetWarning(false)
	host := f.String("-h", "localhost", "host")
	port := f.Uint32("-p", 80, "port")
	packages := f.FixedStrings("-packages", []string{"libmath", "../third"}, "packages")

	err := f.Parse([]string{"prog", "-h", "example.com", "-packages", "x", "y"})
	require.Nil(t, err)

	return NewStatusServer("localhost:0", map[string]*flags.Value{
		"-h":        host,
		"-p":        port,
		"-packages": packages,
	})
}

func TestHandleOptions(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var data map[string]interface{}
	require.Nil(t, yaml.Unmarshal(rec.Body.Bytes(), &data))

	require.Equal(t, "example.com", data["-h"])
	require.Equal(t, "80", data["-p"])
	require.Equal(t, []interface{}{"x", "y"}, data["-packages"])
}

func TestHandleOption(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/options/h", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]interface{}
	require.Nil(t, yaml.Unmarshal(rec.Body.Bytes(), &data))
	require.Equal(t, "example.com", data["-h"])
}

func TestHandleOptionNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/options/missing", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]interface{}
	require.Nil(t, yaml.Unmarshal(rec.Body.Bytes(), &data))
	require.Equal(t, "flagreg", data["name"])
}

package hospital

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain/hospital"
	"github.com/NordCoder/Carelink/internal/httpx"
	"github.com/NordCoder/Carelink/internal/repository/memory"
)

func newRouter() *mux.Router {
	repo := memory.NewHospitalRepo(
		hospital.Hospital{ID: 1, Name: "Seoul National Hospital", IsOpen: true},
		hospital.Hospital{ID: 2, Name: "Busan Medical Center"},
		hospital.Hospital{ID: 3, Name: "seoul st. mary"},
	)
	r := mux.NewRouter()
	NewHandler(New(repo), zap.NewNop()).Mount(r)
	return r
}

func get(t *testing.T, r http.Handler, method, target string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestList(t *testing.T) {
	r := newRouter()

	var page hospital.Page
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/hospitals", &page))
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Size)
	assert.Len(t, page.Items, 3)

	page = hospital.Page{}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/hospitals?q=SEOUL&size=1&page=2", &page))
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)

	page = hospital.Page{}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/hospitals?q=nowhere", &page))
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page = hospital.Page{}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/hospitals?page=1000000&size=100", &page))
	assert.EqualValues(t, 3, page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	for _, q := range []string{"page=0", "size=0", "size=101", "page=x", "page=9223372036854775807"} {
		assert.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/hospitals?"+q, nil), q)
	}
}

func TestGet(t *testing.T) {
	r := newRouter()

	var h hospital.Hospital
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/hospitals/1", &h))
	assert.Equal(t, "Seoul National Hospital", h.Name)
	assert.True(t, h.IsOpen)

	var e httpx.ErrorBody
	assert.Equal(t, http.StatusNotFound, get(t, r, http.MethodGet, "/hospitals/42", &e))
	assert.Equal(t, "hospital not found", e.Detail)
}

func TestWritesAreRejected(t *testing.T) {
	r := newRouter()
	for _, m := range writeMethods {
		for _, path := range []string{"/hospitals", "/hospitals/1"} {
			var e httpx.ErrorBody
			assert.Equal(t, http.StatusMethodNotAllowed, get(t, r, m, path, &e), m+" "+path)
			assert.Equal(t, "hospitals are read-only resources", e.Detail)
		}
	}
}

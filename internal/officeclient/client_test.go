package officeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOffice(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, DefaultOfficePath, r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{
				"country": "AR", "city": "Cordoba", "state": "CBA",
				"zipCode": "5000", "address": "Calle 2", "phone": "351",
			})
		}))
		defer server.Close()

		office, err := New(server.URL+"/", "secret", time.Second).DefaultOffice(context.Background())
		require.NoError(t, err)
		require.NotNil(t, office)
		assert.Equal(t, "Cordoba", office.City)
		assert.Equal(t, "5000", office.ZipCode)
		assert.Equal(t, "Our office", office.Location)
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		office, err := New(server.URL, "", time.Second).DefaultOffice(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, office)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := New(server.URL, "", time.Second).DefaultOffice(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("BadJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{"))
		}))
		defer server.Close()

		_, err := New(server.URL, "", time.Second).DefaultOffice(context.Background())
		assert.Error(t, err)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := New(url, "", time.Second).DefaultOffice(context.Background())
		assert.Error(t, err)
	})
}

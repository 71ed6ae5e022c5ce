package providerservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peti-app/appointment-service/pkg/logger"
)

func TestGetProvider_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/providers/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","name":"PetShop Central","category":"Tienda"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, logger.Nop())

	provider, err := client.GetProvider(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, "PetShop Central", provider.Name)
	assert.Equal(t, "Tienda", provider.Category)
}

func TestGetProviderWithGracefulDegradation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrProviderNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrServiceDegraded},
		{name: "broken json", status: http.StatusOK, body: "{", wantErr: ErrServiceDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second, logger.Nop())

			_, err := client.GetProviderWithGracefulDegradation(context.Background(), "1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetProviderWithGracefulDegradation_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := NewClient(addr, 200*time.Millisecond, logger.Nop())

	_, err := client.GetProviderWithGracefulDegradation(context.Background(), "1")
	assert.ErrorIs(t, err, ErrServiceDegraded)
}

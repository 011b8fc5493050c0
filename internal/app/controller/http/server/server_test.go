package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avGenie/go-order-system/internal/app/config"
	"github.com/avGenie/go-order-system/internal/app/model"
	storage "github.com/avGenie/go-order-system/internal/app/storage/postgres"
	"github.com/avGenie/go-order-system/internal/app/usecase/events"
	"github.com/avGenie/go-order-system/internal/app/usecase/order"
)

const (
	testAPIKey = "plain-api-key"

	orderBody = `{"order": {
		"nome": "Combo 1",
		"valor": 29.9,
		"orderItems": [{"productId": "product-a", "quantidade": 2}],
		"entregador": "Joao Silva",
		"numero": "100",
		"complemento": "Apto 2",
		"cep": "%s",
		"tel": "(11) 91234-5678",
		"metodo_pag": "pix",
		"instrucoes": "sem cebola"
	}}`
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := storage.New(ctx, sqlite.Open(dsn), goose.DialectSQLite3)
	require.NoError(t, err)

	seed, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	now := time.Now().UTC()
	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)`, []any{"team-a", "Pizza Hut!", now}},
		{`INSERT INTO team_members (id, team_id, user_id, role, created_at) VALUES (?, ?, ?, ?, ?)`, []any{"member-1", "team-a", "user-a", "OWNER", now}},
		{`INSERT INTO inventory_products (id, team_id, name, created_at) VALUES (?, ?, ?, ?)`, []any{"product-a", "team-a", "Pizza", now}},
		{`INSERT INTO api_keys (id, name, hashed_key, team_id, created_at) VALUES (?, ?, ?, ?, ?)`, []any{"key-1", "default", order.HashAPIKey(testAPIKey), "team-a", now}},
	}
	for _, statement := range statements {
		require.NoError(t, seed.Exec(statement.query, statement.args...).Error)
	}

	viaCEP := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws/01310100/json/" {
			w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","localidade":"São Paulo","uf":"SP"}`))
			return
		}
		w.Write([]byte(`{"erro": true}`))
	}))
	t.Cleanup(viaCEP.Close)

	server := New(config.Config{
		TokenSecret:          "secret",
		PostalLookupAddr:     viaCEP.URL + "/ws/",
		PostalLookupTimeout:  time.Second,
		PostalLookupRequired: true,
	}, store, events.Noop{})
	t.Cleanup(func() {
		server.Close()
	})

	return server.server.Handler
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	writer := httptest.NewRecorder()
	handler.ServeHTTP(writer, request)

	return writer
}

func TestCreateOrderEndToEnd(t *testing.T) {
	handler := newTestServer(t)

	res := serve(handler, http.MethodPost, "/api/order?apiKey="+testAPIKey, fmt.Sprintf(orderBody, "01310-100"))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var created model.CreateOrderResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "Order created!", created.Message)
	assert.Regexp(t, `^pizza-hut-[a-z0-9]{8}$`, created.Data.ID)
	assert.Equal(t, "BACKLOG", created.Data.Status)
	assert.Equal(t, "Avenida Paulista", created.Data.Street)
	assert.Equal(t, "user-a", created.Data.CreatedBy)
	require.Len(t, created.Data.Items, 1)
	assert.Equal(t, "Pizza", created.Data.Items[0].Product.Name)

	res = serve(handler, http.MethodGet, "/api/order?apiKey="+testAPIKey, "")
	require.Equal(t, http.StatusOK, res.Code)

	var orders model.OrdersResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, created.Data.ID, orders[0].ID)
}

func TestCreateOrderEndToEndErrors(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		statusCode int
		message    string
	}{
		{
			name:       "short postal code",
			method:     http.MethodPost,
			target:     "/api/order?apiKey=" + testAPIKey,
			body:       fmt.Sprintf(orderBody, "123"),
			statusCode: http.StatusUnprocessableEntity,
			message:    "cep",
		},
		{
			name:       "unknown postal code",
			method:     http.MethodPost,
			target:     "/api/order?apiKey=" + testAPIKey,
			body:       fmt.Sprintf(orderBody, "99999-999"),
			statusCode: http.StatusUnprocessableEntity,
			message:    "cep",
		},
		{
			name:       "quoted order value",
			method:     http.MethodPost,
			target:     "/api/order?apiKey=" + testAPIKey,
			body:       strings.Replace(fmt.Sprintf(orderBody, "01310-100"), `"valor": 29.9`, `"valor": "29.9"`, 1),
			statusCode: http.StatusUnprocessableEntity,
			message:    "valor: order value must be a number",
		},
		{
			name:       "value finer than a cent",
			method:     http.MethodPost,
			target:     "/api/order?apiKey=" + testAPIKey,
			body:       strings.Replace(fmt.Sprintf(orderBody, "01310-100"), `"valor": 29.9`, `"valor": 0.001`, 1),
			statusCode: http.StatusUnprocessableEntity,
			message:    "valor",
		},
		{
			name:       "unknown api key",
			method:     http.MethodGet,
			target:     "/api/order?apiKey=unknown",
			statusCode: http.StatusUnauthorized,
			message:    "Invalid API key",
		},
		{
			name:       "missing api key",
			method:     http.MethodGet,
			target:     "/api/order",
			statusCode: http.StatusBadRequest,
			message:    "apiKey",
		},
		{
			name:       "unsupported method",
			method:     http.MethodPut,
			target:     "/api/order",
			statusCode: http.StatusMethodNotAllowed,
			message:    "Not Allowed",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := serve(handler, test.method, test.target, test.body)
			assert.Equal(t, test.statusCode, res.Code)

			var body model.ErrorResponse
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Contains(t, body.Error.Message, test.message)
		})
	}
}

func TestOperationalRoutes(t *testing.T) {
	handler := newTestServer(t)

	res := serve(handler, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, res.Code)

	serve(handler, http.MethodGet, "/api/order", "")

	res = serve(handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "orders_http_requests_total")
	assert.Contains(t, res.Body.String(), `status="400"`)
}

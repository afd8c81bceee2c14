package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/checkout"
	"github.com/pmdelacruz/artifact-market/internal/orders"
	"github.com/pmdelacruz/artifact-market/internal/payment"
	"github.com/pmdelacruz/artifact-market/internal/registry"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

// newTestServer wires the full HTTP surface over in-memory repositories,
// with the upstream registry stubbed by the given handler.
func newTestServer(t *testing.T, upstream http.HandlerFunc) (*httptest.Server, *http.Client) {
	t.Helper()

	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)
	client := registry.NewClient(up.URL, "fallback-key")
	gateway := registry.NewGateway(client, nil)

	cartSvc := cart.NewService(cart.NewMemoryRepository())
	shipRepo := shipping.NewMemoryRepository()
	ledger := orders.NewMemoryRepository()
	checkoutSvc := checkout.NewService(cartSvc, shipRepo, ledger, payment.Simulated{}, nil, "test-api")
	ordersSvc := orders.NewService(ledger, nil, "test-api")

	router := NewRouter()
	(&RegistryHandler{Gateway: gateway, Client: client}).Register(router)
	(&CartHandler{Cart: cartSvc}).Register(router)
	(&CheckoutHandler{Checkout: checkoutSvc}).Register(router)
	(&OrdersHandler{Orders: ordersSvc}).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, b
}

func catalogUpstream(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte(`{"items":[
		{"id":"a1","name":"Golden Tara","period":"13th century","origin":"Agusan","value":250,"createdAt":"2026-01-01T00:00:00Z","revoked":false},
		{"id":"a2","name":"Manunggul Jar","period":"890 BC","origin":"Palawan","value":250,"createdAt":"2026-01-02T00:00:00Z","revoked":true}
	]}`))
}

func TestPublishedEndpointFiltersRevoked(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	res, body := doJSON(t, c, http.MethodGet, srv.URL+"/published", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Items []registry.Artifact `json:"items"`
		Error string              `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Empty(t, out.Error)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "a1", out.Items[0].ID)
}

func TestPublishedEndpointUpstreamDown(t *testing.T) {
	// drop the connection mid-request to simulate an unreachable upstream
	srv, c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	})

	res, body := doJSON(t, c, http.MethodGet, srv.URL+"/published", nil)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var out struct {
		Items []registry.Artifact `json:"items"`
		Error string              `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Error)
	assert.Empty(t, out.Items)
}

func addArtifact(t *testing.T, c *http.Client, base, id string, value int64) cart.Line {
	t.Helper()
	res, body := doJSON(t, c, http.MethodPost, base+"/cart/items", registry.Artifact{
		ID: id, Name: "Artifact " + id, Period: "precolonial", Origin: "Butuan", Value: value,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var line cart.Line
	require.NoError(t, json.Unmarshal(body, &line))
	return line
}

func validAddress() shipping.Address {
	return shipping.Address{
		Email: "juan@example.com", FirstName: "Juan", LastName: "Dela Cruz",
		Street: "Poblacion", City: "Cebu City", Province: "Cebu", ZipCode: "6000",
	}
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	// cart step
	addArtifact(t, c, srv.URL, "a1", 200)
	addArtifact(t, c, srv.URL, "a2", 300)

	res, body := doJSON(t, c, http.MethodGet, srv.URL+"/cart", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var summary struct {
		Items []cart.Line `json:"items"`
		Total int64       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(500), summary.Total)
	require.Len(t, summary.Items, 2)
	assert.NotEqual(t, summary.Items[0].CartID, summary.Items[1].CartID)

	// shipping must be complete before it is accepted
	incomplete := validAddress()
	incomplete.ZipCode = ""
	res, _ = doJSON(t, c, http.MethodPut, srv.URL+"/checkout/shipping", incomplete)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res, _ = doJSON(t, c, http.MethodPut, srv.URL+"/checkout/shipping", validAddress())
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body = doJSON(t, c, http.MethodGet, srv.URL+"/checkout", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		Step string `json:"step"`
	}
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "payment", state.Step)

	// unknown payment method is rejected
	res, _ = doJSON(t, c, http.MethodPost, srv.URL+"/checkout/order", map[string]string{"payment_method": "PayPal"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	// place the order
	res, body = doJSON(t, c, http.MethodPost, srv.URL+"/checkout/order", map[string]string{"payment_method": "GCash"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var placed orders.Order
	require.NoError(t, json.Unmarshal(body, &placed))
	assert.Equal(t, int64(500), placed.Total)
	assert.Equal(t, "GCash", placed.PaymentMethod)

	// cart is empty again
	res, body = doJSON(t, c, http.MethodGet, srv.URL+"/cart", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Empty(t, summary.Items)

	// ledger has exactly the one order
	res, body = doJSON(t, c, http.MethodGet, srv.URL+"/orders", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed struct {
		Orders []orders.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed.Orders, 1)
	assert.Equal(t, placed.OrderID, listed.Orders[0].OrderID)
}

func TestPlaceOrderWithEmptyCartRejected(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	res, _ := doJSON(t, c, http.MethodPost, srv.URL+"/checkout/order", map[string]string{"payment_method": "GCash"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestSetQuantityZeroRemovesOverHTTP(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	line := addArtifact(t, c, srv.URL, "a1", 100)

	res, body := doJSON(t, c, http.MethodPut, srv.URL+"/cart/items/"+line.CartID, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var summary struct {
		Items []cart.Line `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Empty(t, summary.Items)
}

func TestAddRevokedArtifactRejectedOverHTTP(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	res, _ := doJSON(t, c, http.MethodPost, srv.URL+"/cart/items", registry.Artifact{
		ID: "a2", Name: "Manunggul Jar", Value: 250, Revoked: true,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestTwoPhaseCancellationOverHTTP(t *testing.T) {
	srv, c := newTestServer(t, catalogUpstream)

	addArtifact(t, c, srv.URL, "a1", 750)
	res, _ := doJSON(t, c, http.MethodPut, srv.URL+"/checkout/shipping", validAddress())
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	res, body := doJSON(t, c, http.MethodPost, srv.URL+"/checkout/order", map[string]string{"payment_method": "Maya"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var placed orders.Order
	require.NoError(t, json.Unmarshal(body, &placed))

	// phase one: preview
	res, body = doJSON(t, c, http.MethodGet, fmt.Sprintf("%s/orders/%s/cancellation", srv.URL, placed.OrderID), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var preview orders.CancellationPreview
	require.NoError(t, json.Unmarshal(body, &preview))
	assert.Equal(t, int64(750), preview.RefundAmount)

	// phase two: confirm
	res, body = doJSON(t, c, http.MethodDelete, srv.URL+"/orders/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var receipt orders.CancellationReceipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, placed.OrderID, receipt.OrderID)
	assert.Equal(t, int64(750), receipt.RefundAmount)

	// gone from the ledger
	res, body = doJSON(t, c, http.MethodGet, srv.URL+"/orders", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed struct {
		Orders []orders.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed.Orders)

	// confirming again is a silent no-op
	res, _ = doJSON(t, c, http.MethodDelete, srv.URL+"/orders/"+placed.OrderID, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// previewing a missing order is a 404
	res, _ = doJSON(t, c, http.MethodGet, fmt.Sprintf("%s/orders/%s/cancellation", srv.URL, placed.OrderID), nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

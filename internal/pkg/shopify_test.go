package pkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopifyClient_SearchCustomersByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/customers/search.json", r.URL.Path)
		assert.Equal(t, "email:maya@example.com", r.URL.Query().Get("query"))
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"customers":[{"id":7,"email":"maya@example.com","first_name":"Maya","last_name":"Chen","tags":" Member , VIP","orders_count":2}]}`))
	}))
	defer srv.Close()

	c := NewShopifyClient(ShopifyConfig{StoreDomain: "clubhouse.myshopify.com", AccessToken: "shpat_test"})
	c.BaseURL = srv.URL

	customers, err := c.SearchCustomersByEmail(context.Background(), "maya@example.com")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Maya Chen", customers[0].FullName())
	assert.Equal(t, []string{"member", "vip"}, customers[0].TagSet())
	assert.Equal(t, 2, customers[0].OrdersCount)
}

func TestShopifyClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewShopifyClient(ShopifyConfig{StoreDomain: "x", AccessToken: "bad"})
	c.BaseURL = srv.URL

	_, err := c.SearchCustomersByEmail(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestShopifyClient_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewShopifyClient(ShopifyConfig{StoreDomain: "x", AccessToken: "t"})
	c.BaseURL = srv.URL

	_, err := c.SearchCustomersByEmail(context.Background(), "a@b.com")
	assert.ErrorContains(t, err, "shopify decode")
}

func TestShopifyClient_Configured(t *testing.T) {
	var nilClient *ShopifyClient
	assert.False(t, nilClient.Configured())
	assert.False(t, NewShopifyClient(ShopifyConfig{StoreDomain: "x"}).Configured())
	assert.True(t, NewShopifyClient(ShopifyConfig{StoreDomain: "x", AccessToken: "t"}).Configured())
}

func TestCustomer_Names(t *testing.T) {
	assert.Equal(t, "Maya", Customer{FirstName: " Maya "}.FullName())
	assert.Equal(t, "Chen", Customer{LastName: "Chen"}.FullName())
	assert.Empty(t, Customer{}.FullName())
	assert.Nil(t, Customer{Tags: " , "}.TagSet())
}

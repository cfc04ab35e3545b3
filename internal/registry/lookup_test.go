package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/fetch"
	"github.com/sellerscout/seller-scout/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(fetch.New(fetch.Config{}), Config{
		BaseURL:       srv.URL,
		ReferenceYear: 2025,
	})
	return client, srv
}

func TestVendorProfileURL(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/other">Somewhere else</a>
			<a href="/electro-shop/v?ref=see_vendor_page">Vezi magazinul</a>
		</body></html>`))
	}))

	got, err := client.VendorProfileURL(context.Background(), srv.URL+"/produs/telefon/pd/ABC123/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/electro-shop/v?ref=see_vendor_page", got)
}

func TestVendorProfileURLMissingLink(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No seller here</p></body></html>`))
	}))

	_, err := client.VendorProfileURL(context.Background(), srv.URL+"/produs/x/")
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestResolveVendor(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<p><strong>Denumirea companiei:</strong> ELECTRO SHOP SRL</p>
			<p><strong>Cod unic de inregistrare:</strong> 12345678</p>
		</body></html>`))
	}))

	got, err := client.ResolveVendor(context.Background(), srv.URL+"/electro-shop/vendor")
	require.NoError(t, err)
	assert.Equal(t, "ELECTRO SHOP SRL", got.Name)
	assert.Equal(t, "12345678", got.RegistrationCode)
}

func TestResolveVendorMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "name label absent",
			body: `<p><strong>Cod unic de inregistrare:</strong> 12345678</p>`,
		},
		{
			name: "code label absent",
			body: `<p><strong>Denumirea companiei:</strong> ELECTRO SHOP SRL</p>`,
		},
		{
			name: "label present but value is not a text node",
			body: `<p><strong>Denumirea companiei:</strong><em>ELECTRO</em></p>
				<p><strong>Cod unic de inregistrare:</strong> 12345678</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html><body>" + body + "</body></html>"))
			}))

			_, err := client.ResolveVendor(context.Background(), srv.URL+"/vendor")
			assert.ErrorIs(t, err, common.ErrParse)
		})
	}
}

func TestCompanyPageURL(t *testing.T) {
	client := New(fetch.New(fetch.Config{}), Config{BaseURL: "https://listafirme.ro", ReferenceYear: 2025})

	tests := []struct {
		name string
		id   model.VendorIdentity
		want string
	}{
		{
			name: "simple name",
			id:   model.VendorIdentity{Name: "Electro Shop SRL", RegistrationCode: "12345678"},
			want: "https://listafirme.ro/electro-shop-srl-12345678/",
		},
		{
			name: "dots and commas stripped before hyphenation",
			id:   model.VendorIdentity{Name: "S.C. Electro Co. S.R.L.", RegistrationCode: "99"},
			want: "https://listafirme.ro/sc-electro-co-srl-99/",
		},
		{
			name: "comma in name",
			id:   model.VendorIdentity{Name: "Alfa, Beta Impex SRL", RegistrationCode: "4321"},
			want: "https://listafirme.ro/alfa-beta-impex-srl-4321/",
		},
		{
			name: "surrounding whitespace trimmed",
			id:   model.VendorIdentity{Name: "  Petal  ", RegistrationCode: "7"},
			want: "https://listafirme.ro/petal-7/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.CompanyPageURL(tt.id))
		})
	}
}

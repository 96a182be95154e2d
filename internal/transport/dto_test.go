package transport

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/service"
)

func TestFeatureList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"array", `{"features":["BPA free"," Leak proof ",""]}`, []string{"BPA free", "Leak proof"}},
		{"csv string", `{"features":"BPA free, Leak proof ,,"}`, []string{"BPA free", "Leak proof"}},
		{"empty string", `{"features":""}`, []string{}},
		{"null", `{"features":null}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ProductRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, []string(req.Features))
		})
	}

	var f FeatureList
	require.NoError(t, f.UnmarshalParams([]string{"a, b", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, []string(f))
}

func TestFlag(t *testing.T) {
	for _, in := range []string{`true`, `"true"`, `"on"`, `"1"`, `"yes"`, `1`, `"YES"`} {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.True(t, bool(f), in)
	}
	for _, in := range []string{`false`, `"false"`, `"off"`, `0`, `""`, `null`} {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.False(t, bool(f), in)
	}

	var f Flag
	require.NoError(t, f.UnmarshalParam("on"))
	assert.True(t, bool(f))
}

func TestProductRequest_Command(t *testing.T) {
	var req ProductRequest
	body := `{"name":"  Bottle ","description":"d","price":"19.99","capacity":"750ml",
		"material":"steel","weight":"300g","dimensions":"7x26","color":"blue","inStock":"on"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	cmd, err := req.Command()
	require.NoError(t, err)
	assert.Equal(t, "Bottle", cmd.Name)
	assert.True(t, cmd.Price.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, cmd.InStock)
	assert.Equal(t, []string{}, cmd.Features)

	req.Price = Numeric{Raw: "12.5", Set: true}
	cmd, err = req.Command()
	require.NoError(t, err)
	assert.Equal(t, "12.5", cmd.Price.String())

	req.Price = Numeric{Raw: "abc", Set: true}
	_, err = req.Command()
	require.Error(t, err)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr.Fields[0].Field)

	req.Price = Numeric{}
	_, err = req.Command()
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestProductRequest_BadPriceReportsOtherFields(t *testing.T) {
	req := ProductRequest{Name: "  ", Description: "d", Capacity: "1L", Material: "steel",
		Weight: "1kg", Dimensions: "1x1", Color: "red", Price: Numeric{Raw: "abc", Set: true}}

	_, err := req.Command()
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"price", "name"}, fields)
}

func TestProductRequest_NumericPrice(t *testing.T) {
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":5}`), &req))
	assert.Equal(t, Numeric{Raw: "5", Set: true}, req.Price)
}

func TestCartRequest_Quantities(t *testing.T) {
	id := uuid.New()

	var req CartRequest
	require.NoError(t, json.Unmarshal([]byte(`{"productId":"`+id.String()+`"}`), &req))
	got, err := req.Product()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	q, err := req.AddQuantity()
	require.NoError(t, err)
	assert.Equal(t, 1, q)

	_, err = req.UpdateQuantity()
	assert.ErrorIs(t, err, service.ErrValidation)

	require.NoError(t, json.Unmarshal([]byte(`{"productId":"x","quantity":"3"}`), &req))
	q, err = req.UpdateQuantity()
	require.NoError(t, err)
	assert.Equal(t, 3, q)
	_, err = req.Product()
	assert.ErrorIs(t, err, service.ErrValidation)

	require.NoError(t, json.Unmarshal([]byte(`{"quantity":"two"}`), &req))
	_, err = req.AddQuantity()
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegisterRequest_EchoDropsPassword(t *testing.T) {
	req := RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"}
	b, err := json.Marshal(req.Echo())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret1")
	assert.NotContains(t, string(b), "password")
}

func TestStatusRequest_Payment(t *testing.T) {
	assert.Equal(t, "paid", StatusRequest{PaymentStatus: "paid", Status: "x"}.Payment())
	assert.Equal(t, "failed", StatusRequest{Status: "failed"}.Payment())
}

package feed

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func TestGenerate_ProductoEnOfertaIncluyeOriginal(t *testing.T) {
	products := []*entity.Product{
		{
			ID:          "p1",
			Name:        "Cuaderno rayado",
			CategoryID:  "cat1",
			Stock:       12,
			RetailPrice: decimal.RequireFromString("80.00"),
			OriginalRetailPrice: decimal.NewNullDecimal(decimal.RequireFromString("100.00")),
			HasActiveOffer:      true,
			ActiveOfferID:       "of1",
		},
		{
			ID:          "p2",
			Name:        "Lápiz HB",
			CategoryID:  "cat1",
			RetailPrice: decimal.RequireFromString("5.50"),
		},
	}

	out, err := NewGenerator().Generate(products, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("catalog")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("count", ""))
	assert.Equal(t, "2025-06-15T12:00:00Z", root.SelectAttrValue("generatedAt", ""))

	items := root.SelectElements("product")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "p1", first.SelectAttrValue("id", ""))
	assert.Equal(t, "Cuaderno rayado", first.SelectElement("name").Text())
	price := first.SelectElement("price")
	assert.Equal(t, "80.00", price.Text())
	assert.Equal(t, "true", price.SelectAttrValue("onSale", ""))
	assert.Equal(t, "100.00", first.SelectElement("originalPrice").Text())

	second := items[1]
	assert.Equal(t, "5.50", second.SelectElement("price").Text())
	assert.Empty(t, second.SelectAttrValue("onSale", ""))
	assert.Nil(t, second.SelectElement("originalPrice"))
}

func TestGenerate_NoExponePreciosMayoristas(t *testing.T) {
	products := []*entity.Product{
		{
			ID:             "p1",
			Name:           "Cuaderno rayado",
			CategoryID:     "cat1",
			RetailPrice:    decimal.RequireFromString("100.00"),
			WholesalePrice: decimal.RequireFromString("70.00"),
		},
	}

	out, err := NewGenerator().Generate(products, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "70.00")
	assert.NotContains(t, string(out), "wholesale")
}

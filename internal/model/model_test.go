package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"electronics", CategoryElectronics, true},
		{"Jewelery", CategoryJewelry, true},
		{"jewellery", CategoryJewelry, true},
		{"men's clothing", CategoryMensClothing, true},
		{"  Women's   Clothing ", CategoryWomensClothing, true},
		{"women’s clothing", CategoryWomensClothing, true},
		{"furniture", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_CatalogName(t *testing.T) {
	assert.Equal(t, "jewelery", CategoryJewelry.CatalogName())
	assert.Equal(t, "men's clothing", CategoryMensClothing.CatalogName())
	assert.Equal(t, "", Category("").CatalogName())
	assert.False(t, Category("toys").Valid())
}

func TestColor_Valid(t *testing.T) {
	for _, c := range Colors {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Color("gold").Valid())
	assert.False(t, Color("").Valid())
}

func TestIntent_IsShopping(t *testing.T) {
	assert.False(t, Intent{}.IsShopping())
	assert.True(t, Intent{Category: CategoryElectronics}.IsShopping())
	assert.True(t, Intent{Keywords: []string{"laptop"}}.IsShopping())
	assert.False(t, Intent{Color: ColorRed}.IsShopping())
}

func TestJSONMap_RoundTripThroughDriver(t *testing.T) {
	in := IntentMap(Intent{Keywords: []string{"ring"}, Category: CategoryJewelry, Color: ColorYellow})

	v, err := in.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, "jewelry", out["category"])
	assert.Equal(t, "yellow", out["color"])
	assert.Equal(t, []interface{}{"ring"}, out["keywords"])

	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)
	assert.Error(t, out.Scan(42))
}

func TestUser_Info(t *testing.T) {
	u := User{ID: "1", Name: "A", Email: "a@x.test", Password: "hash", Role: RoleUser}
	info := u.Info()
	assert.Equal(t, "a@x.test", info.Email)
	assert.Equal(t, RoleUser, info.Role)
}

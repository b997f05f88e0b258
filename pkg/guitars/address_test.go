package guitars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddresser_RoundTrip(t *testing.T) {
	for _, basePath := range []string{"/guitars", "guitars/", "/api/guitars"} {
		a := NewAddresser(basePath)
		for _, name := range []string{"Stratocaster", "Les Paul", "AC/DC SG", "Flying V?", "Gretsch #6120", "Ünïcode"} {
			address := a.Address(name)
			got, err := a.Name(address)
			require.NoError(t, err, address)
			assert.Equal(t, name, got, address)
		}
	}
}

func TestAddresser_Address(t *testing.T) {
	a := NewAddresser(DefaultBasePath)
	assert.Equal(t, "/guitars/Stratocaster", a.Address("Stratocaster"))
	assert.Equal(t, "/guitars/Les%20Paul", a.Address("Les Paul"))
	assert.Equal(t, "/guitars/AC%2FDC", a.Address("AC/DC"))
	assert.Equal(t, "/guitars", a.BasePath())
}

func TestAddresser_RootBasePath(t *testing.T) {
	a := NewAddresser("/")
	assert.Equal(t, "/", a.BasePath())
	assert.Equal(t, "/SG", a.Address("SG"))
	name, err := a.Name("/SG")
	require.NoError(t, err)
	assert.Equal(t, "SG", name)
}

func TestAddresser_Name(t *testing.T) {
	a := NewAddresser(DefaultBasePath)

	name, err := a.Name("http://localhost:8080/guitars/Les%20Paul")
	require.NoError(t, err)
	assert.Equal(t, "Les Paul", name)

	for _, address := range []string{"", "/guitars", "/guitars/", "/basses/SG", "/guitars/SG/strings", "/guitars/%zz"} {
		_, err := a.Name(address)
		assert.Error(t, err, address)
	}
}

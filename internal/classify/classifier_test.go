package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMyFrame(status byte) []byte {
	return []byte{0x12, 0x19, status, 0xAA, 0xBB}
}

func TestHasFindMySignature(t *testing.T) {
	assert.True(t, HasFindMySignature(map[uint16][]byte{0x004C: findMyFrame(0x05)}))
	assert.False(t, HasFindMySignature(map[uint16][]byte{0x004C: {0x10, 0x05}}))
	assert.False(t, HasFindMySignature(map[uint16][]byte{0x004C: {}}))
	assert.False(t, HasFindMySignature(map[uint16][]byte{0x0075: findMyFrame(0x05)}))
	assert.False(t, HasFindMySignature(nil))
}

func TestClassifyNameKeywords(t *testing.T) {
	cases := []struct {
		name     string
		wantType string
	}{
		{"John's AirTag", "AirTag"},
		{"AirPods Pro", "AirPods"},
		{"iPhone 15", "iPhone"},
		{"Galaxy SmartTag2", "Tracker"},
		{"Tile Mate", "Tracker"},
		{"Galaxy Buds2", "Earbuds"},
		{"Mi Smart Band 7", "Fitness Band"},
		{"LG Soundbar SP8YA", "Speaker"},
		{"Nuki Smart Lock", "Smart Lock"},
	}
	for _, tc := range cases {
		r := Classify(tc.name, nil, "00:11:22:33:44:55", nil)
		assert.Equal(t, tc.wantType, r.DeviceType, tc.name)
		assert.Equal(t, tc.name, r.MeaningfulName, tc.name)
	}
}

func TestClassifyNameKeywordOrder(t *testing.T) {
	// "airtag" precedes "tag" in the table, so an AirTag never downgrades
	// to a generic Tracker.
	r := Classify("airtag", nil, "00:11:22:33:44:55", nil)
	assert.Equal(t, "AirTag", r.DeviceType)
}

func TestClassifyFindMyOverridesName(t *testing.T) {
	mfr := map[uint16][]byte{0x004C: findMyFrame(0x05)}
	r := Classify("Some Speaker", mfr, "00:11:22:33:44:55", nil)
	assert.Equal(t, "AirTag", r.DeviceType)
	assert.Equal(t, "Apple", r.Company)
	// A real advertised name still wins the display name.
	assert.Equal(t, "Some Speaker", r.MeaningfulName)
}

func TestClassifyFindMyStatusBytes(t *testing.T) {
	cases := map[byte]string{
		0x05: "AirTag",
		0x07: "AirPods",
		0x09: "Apple Watch",
		0x0B: "iPhone",
		0xFF: "Find My Device",
	}
	for status, want := range cases {
		mfr := map[uint16][]byte{0x004C: findMyFrame(status)}
		r := Classify("", mfr, "00:11:22:33:44:55", nil)
		assert.Equal(t, want, r.DeviceType)
	}

	// A truncated Find My frame still classifies, just without the refined
	// type.
	r := Classify("", map[uint16][]byte{0x004C: {0x12}}, "00:11:22:33:44:55", nil)
	assert.Equal(t, "Find My Device", r.DeviceType)
}

func TestClassifyCompanyID(t *testing.T) {
	r := Classify("", map[uint16][]byte{0x0075: {0x01}}, "00:11:22:33:44:55", nil)
	assert.Equal(t, "Samsung", r.Company)
	assert.Equal(t, "Samsung Device", r.MeaningfulName)

	// Lowest known company ID wins when several are present.
	multi := map[uint16][]byte{
		0x0075: {0x01},
		0x004C: {0x10, 0x05},
	}
	r = Classify("", multi, "00:11:22:33:44:55", nil)
	assert.Equal(t, "Apple", r.Company)
}

func TestClassifyServiceHints(t *testing.T) {
	r := Classify("", nil, "00:11:22:33:44:55", []string{"0000180d-0000-1000-8000-00805f9b34fb"})
	assert.Equal(t, "Health Device", r.DeviceType)

	r = Classify("", nil, "00:11:22:33:44:55", []string{"0000180F-0000-1000-8000-00805F9B34FB"})
	assert.Equal(t, "Battery-powered Device", r.DeviceType)

	// Hints never override a name-derived type.
	r = Classify("Polar H10", nil, "00:11:22:33:44:55", []string{"0000180d-0000-1000-8000-00805f9b34fb"})
	assert.Equal(t, "Health Device", r.DeviceType) // "Polar H10" has no keyword
	r = Classify("JBL Speaker", nil, "00:11:22:33:44:55", []string{"0000180d-0000-1000-8000-00805f9b34fb"})
	assert.Equal(t, "Speaker", r.DeviceType)
}

func TestClassifyOUIPrefix(t *testing.T) {
	r := Classify("", nil, "a4:83:e7:11:22:33", nil)
	assert.Equal(t, "Apple", r.Company)

	// Company ID always beats the OUI lookup.
	r = Classify("", map[uint16][]byte{0x0075: {0x01}}, "A4:83:E7:11:22:33", nil)
	assert.Equal(t, "Samsung", r.Company)
}

func TestComposeNamePriority(t *testing.T) {
	// Real name wins.
	r := Classify("Kitchen Speaker", map[uint16][]byte{0x004C: {0x10}}, "00:11:22:33:44:55", nil)
	assert.Equal(t, "Kitchen Speaker", r.MeaningfulName)

	// Placeholder names are ignored.
	r = Classify("N/A", map[uint16][]byte{0x004C: findMyFrame(0x05)}, "00:11:22:33:44:55", nil)
	assert.Equal(t, "Apple AirTag", r.MeaningfulName)

	// Type only.
	r = Classify("Unknown", nil, "00:11:22:33:44:55", []string{"110a"})
	assert.Equal(t, "Audio Device", r.MeaningfulName)

	// Nothing known: address fallback.
	r = Classify("", nil, "DE:AD:BE:EF:00:01", nil)
	assert.Equal(t, "Device DE...", r.MeaningfulName)
}

func TestIsRealName(t *testing.T) {
	assert.True(t, IsRealName("Tile Mate"))
	assert.False(t, IsRealName(""))
	assert.False(t, IsRealName("N/A"))
	assert.False(t, IsRealName("Unknown"))
}

func TestLookupManufacturer(t *testing.T) {
	require.Equal(t, "Apple", LookupManufacturer(0x004C))
	assert.Equal(t, "Tile", LookupManufacturer(0x02FF))
	assert.Equal(t, "", LookupManufacturer(0xFFFE))
}
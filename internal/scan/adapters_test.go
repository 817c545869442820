package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hciconfigSample = "hci0:\tType: Primary  Bus: USB\n" +
	"\tBD Address: AA:BB:CC:DD:EE:FF  ACL MTU: 310:10  SCO MTU: 64:8\n" +
	"\tUP RUNNING PSCAN\n" +
	"\tRX bytes:1234 acl:0 sco:0 events:100 errors:0\n" +
	"\n" +
	"hci1:\tType: Primary  Bus: UART\n" +
	"\tBD Address: 11:22:33:44:55:66  ACL MTU: 1021:8\n" +
	"\tDOWN\n"

func TestParseHciconfig(t *testing.T) {
	adapters := parseHciconfig(hciconfigSample)
	require.Len(t, adapters, 2)

	assert.Equal(t, "hci0", adapters[0].ID)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", adapters[0].Address)
	assert.Equal(t, "USB", adapters[0].Bus)
	assert.True(t, adapters[0].Up)

	assert.Equal(t, "hci1", adapters[1].ID)
	assert.Equal(t, "11:22:33:44:55:66", adapters[1].Address)
	assert.Equal(t, "UART", adapters[1].Bus)
	assert.False(t, adapters[1].Up)
}

func TestParseHciconfigEmpty(t *testing.T) {
	assert.Empty(t, parseHciconfig(""))
	assert.Empty(t, parseHciconfig("\n\n"))
}

func TestParseHciconfigTruncatedBusLine(t *testing.T) {
	// A header cut off right after the Bus: token must not blow up.
	out := "hci0:\tType: Primary  Bus:\n" +
		"\tBD Address: AA:BB:CC:DD:EE:FF  ACL MTU: 310:10\n" +
		"\tUP RUNNING\n"

	adapters := parseHciconfig(out)
	require.Len(t, adapters, 1)
	assert.Equal(t, "hci0", adapters[0].ID)
	assert.Equal(t, "", adapters[0].Bus)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", adapters[0].Address)
	assert.True(t, adapters[0].Up)
}

func TestValidMAC(t *testing.T) {
	assert.True(t, ValidMAC("AA:BB:CC:DD:EE:FF"))
	assert.True(t, ValidMAC("aa:bb:cc:dd:ee:ff"))
	assert.True(t, ValidMAC("01:23:45:67:89:AB"))

	assert.False(t, ValidMAC(""))
	assert.False(t, ValidMAC("AA:BB:CC:DD:EE"))
	assert.False(t, ValidMAC("AA:BB:CC:DD:EE:FF:00"))
	assert.False(t, ValidMAC("AA-BB-CC-DD-EE-FF"))
	assert.False(t, ValidMAC("GG:BB:CC:DD:EE:FF"))
	assert.False(t, ValidMAC("AABBCCDDEEFF12345"))
}

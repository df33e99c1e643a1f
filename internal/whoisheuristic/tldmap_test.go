package whoisheuristic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeTldWhoisMap_CallerWins(t *testing.T) {
	t.Parallel()

	merged := MergeTldWhoisMap(TldWhoisMap{"com": "whois.custom.example", "zz": "whois.zz.example"})

	host, ok := merged.Lookup("COM")
	require.True(t, ok)
	require.Equal(t, "whois.custom.example", host)

	host, ok = merged.Lookup("zz")
	require.True(t, ok)
	require.Equal(t, "whois.zz.example", host)

	host, ok = merged.Lookup("io")
	require.True(t, ok)
	require.Equal(t, "whois.nic.io", host)
}

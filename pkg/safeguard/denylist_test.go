package safeguard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenyList_Defaults(t *testing.T) {
	d := NewDenyList(DefaultDenyList)

	denied := []string{"", "  ", "10.0.0.1", "192.168.1.10", "127.0.0.1", "::1", "LOCALHOST",
		"fe80::1", "printer.local", "nas.lan", "router.home", "abc.onion"}
	for _, target := range denied {
		assert.True(t, d.Denied(target), "expected %q to be denied", target)
	}

	allowed := []string{"example.com", "93.184.216.34", "2606:2800:220:1::"}
	for _, target := range allowed {
		assert.False(t, d.Denied(target), "expected %q to be allowed", target)
	}
}

func TestDenyList_NonPublicAddresses(t *testing.T) {
	d := NewDenyList(nil)

	for _, target := range []string{"172.16.0.1", "172.31.255.254", "0.0.0.0", "[::1]", "::ffff:10.0.0.1", "169.254.1.1", "fd00::1"} {
		assert.True(t, d.Denied(target), "expected %q to be denied", target)
	}
	for _, target := range []string{"172.32.0.1", "8.8.8.8", "2001:4860:4860::8888", "172.20.example.com"} {
		assert.False(t, d.Denied(target), "expected %q to be allowed", target)
	}
}

func TestDenyList_Check(t *testing.T) {
	d := NewDenyList([]string{"internal"})
	require.NoError(t, d.Check("example.com", "1.2.3.4"))
	assert.ErrorIs(t, d.Check("example.com", "db.internal"), ErrDenied)
}

func TestDenyList_ReplaceNormalizes(t *testing.T) {
	d := NewDenyList(nil)
	assert.False(t, d.Denied("corp.example"))

	d.Replace([]string{"  CORP.  ", ""})
	assert.Equal(t, []string{"corp."}, d.Patterns())
	assert.True(t, d.Denied("corp.example"))
}

func TestDenyList_ConcurrentReplace(t *testing.T) {
	d := NewDenyList(DefaultDenyList)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Replace(DefaultDenyList)
		}()
		go func() {
			defer wg.Done()
			_ = d.Denied("127.0.0.1")
		}()
	}
	wg.Wait()
	assert.True(t, d.Denied("127.0.0.1"))
}

package scanner

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/pkg/probe"
)

func portRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, p)
	}
	return out
}

func TestScan_FindsListenerOnly(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	s := New(WithTimeout(time.Second), WithConcurrency(3))

	results, err := s.Scan("127.0.0.1", []int{port - 1, port, port + 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, port, results[0].Port)
	assert.GreaterOrEqual(t, results[0].LatencyMs(), 0.0)
}

func TestScan_NoListeners(t *testing.T) {
	closed := probe.ProberFunc(func(string, int) probe.Outcome { return probe.Closed })

	results, err := New(WithProber(closed)).Scan("192.0.2.1", portRange(1, 50))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestScan_EmptyPortList(t *testing.T) {
	results, err := New().Scan("127.0.0.1", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScan_NeverExceedsConcurrency(t *testing.T) {
	const limit = 3
	ports := portRange(1000, 1019)

	var inFlight, peak atomic.Int32
	started := make(chan int, len(ports))
	release := make(chan struct{})

	blocking := probe.ProberFunc(func(_ string, port int) probe.Outcome {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		started <- port
		<-release
		inFlight.Add(-1)
		return probe.Open(time.Millisecond)
	})

	s := New(WithProber(blocking), WithConcurrency(limit))

	done := make(chan []Result, 1)
	go func() {
		results, err := s.Scan("example.test", ports)
		assert.NoError(t, err)
		done <- results
	}()

	for i := 0; i < limit; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d probes started, want %d", i, limit)
		}
	}

	select {
	case p := <-started:
		t.Fatalf("probe for port %d started while %d slots were held", p, limit)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, int32(limit), inFlight.Load())

	close(release)

	select {
	case results := <-done:
		assert.Len(t, results, len(ports))
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not complete")
	}
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestScan_SortsRegardlessOfCompletionOrder(t *testing.T) {
	ports := []int{9000, 22, 8080, 443, 80, 3306, 21, 5432}

	var mu sync.Mutex
	var completion []int

	// Lower ports sleep longer so they finish last.
	slow := probe.ProberFunc(func(_ string, port int) probe.Outcome {
		delay := time.Duration(10000-port) * time.Microsecond * 5
		time.Sleep(delay)
		mu.Lock()
		completion = append(completion, port)
		mu.Unlock()
		return probe.Open(delay)
	})

	results, err := New(WithProber(slow), WithConcurrency(len(ports))).Scan("example.test", ports)
	require.NoError(t, err)
	require.Len(t, results, len(ports))

	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i-1].Port, results[i].Port)
	}
	assert.Equal(t, 9000, completion[0], "highest port should complete first")
	assert.Equal(t, 21, results[0].Port)
}

func TestScan_OnlyOpenPortsCollected(t *testing.T) {
	odd := probe.ProberFunc(func(_ string, port int) probe.Outcome {
		if port%2 == 1 {
			return probe.Open(time.Duration(port) * time.Microsecond)
		}
		return probe.Closed
	})

	results, err := New(WithProber(odd), WithConcurrency(4)).Scan("example.test", portRange(1, 10))
	require.NoError(t, err)

	got := make([]int, 0, len(results))
	for _, r := range results {
		got = append(got, r.Port)
	}
	assert.Equal(t, []int{1, 3, 5, 7, 9}, got)
}

func TestScan_ObserverSeesEveryProbe(t *testing.T) {
	ports := portRange(1, 25)
	var open, closed atomic.Int32

	half := probe.ProberFunc(func(_ string, port int) probe.Outcome {
		if port <= 10 {
			return probe.Open(0)
		}
		return probe.Closed
	})
	obs := ObserverFunc(func(_ int, o probe.Outcome) {
		if o.IsOpen() {
			open.Add(1)
		} else {
			closed.Add(1)
		}
	})

	_, err := New(WithProber(half), WithObserver(obs)).Scan("example.test", ports)
	require.NoError(t, err)
	assert.Equal(t, int32(10), open.Load())
	assert.Equal(t, int32(15), closed.Load())
}

func TestScanContext_AbortsOnDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	stuck := probe.ProberFunc(func(string, int) probe.Outcome {
		<-release
		return probe.Closed
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results, err := New(WithProber(stuck)).ScanContext(ctx, "example.test", []int{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Nil(t, results)
}

func TestScanContext_ReturnsResults(t *testing.T) {
	open := probe.ProberFunc(func(string, int) probe.Outcome { return probe.Open(time.Millisecond) })

	results, err := New(WithProber(open)).ScanContext(context.Background(), "example.test", []int{3, 1, 2})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Port)
}

func TestNew_Options(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultConcurrency, s.Concurrency())

	assert.Equal(t, 7, New(WithConcurrency(7)).Concurrency())
	assert.Equal(t, DefaultConcurrency, New(WithConcurrency(0)).Concurrency())
}

func TestSortResults(t *testing.T) {
	in := []Result{{Port: 443}, {Port: 22}, {Port: 80}}
	out := SortResults(in)
	assert.Equal(t, []int{22, 80, 443}, []int{out[0].Port, out[1].Port, out[2].Port})
}

func TestResult_JSON(t *testing.T) {
	data, err := Result{Port: 443, Latency: 12300 * time.Microsecond}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"port":443,"ms":12.3}`, string(data))
}

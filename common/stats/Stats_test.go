package stats

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCommandStats(t *testing.T) {
	st := NewStats()
	st.AddSession("s2")
	st.AddSession("s1")
	st.AddSession("s1")
	require.Equal(t, []string{"s1", "s2"}, st.Sessions)

	st.AddCommandStat("s1", "sort", time.Millisecond)
	st.AddCommandStat("s1", "sort", time.Millisecond)
	st.AddCommandStat("s1", "ih", time.Millisecond)
	st.AddCommandStat("s2", "reverse", time.Millisecond)
	require.Equal(t, int64(2), st.CommandCount("s1", "sort"))
	require.Equal(t, int64(1), st.CommandCount("s1", "ih"))
	require.Equal(t, int64(0), st.CommandCount("s2", "sort"))
	require.Equal(t, "{\"ih\": 1, \"sort\": 2}", st.Stats["s1"].String())

	st.DelSession("s1")
	require.Equal(t, []string{"s2"}, st.Sessions)
	require.Equal(t, int64(0), st.CommandCount("s1", "sort"))
	st.DelSession("missing")
}

func TestErrStats(t *testing.T) {
	st := NewStats()
	st.IncErrStat(MismatchErrKey)
	st.IncErrStat("weird")
	require.Equal(t, int64(1), st.ErrCount(MismatchErrKey))
	require.Equal(t, int64(1), st.ErrCount(OtherErrKey))
	require.Contains(t, st.String(), "\"mismatch\": 1")
}

func TestStatsJSON(t *testing.T) {
	st := NewStats()
	st.AddSession("a")
	st.AddCommandStat("a", "new", time.Microsecond)
	data, err := st.JSON()
	require.NoError(t, err)
	var decoded struct {
		Sessions []string `json:"sessions"`
		Stats    map[string]struct {
			Commands []struct {
				Name  string `json:"name"`
				Count int64  `json:"count"`
			} `json:"commands"`
		} `json:"stats"`
		Errors map[string]int64 `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, []string{"a"}, decoded.Sessions)
	require.Equal(t, "new", decoded.Stats["a"].Commands[0].Name)
	require.Equal(t, int64(1), decoded.Stats["a"].Commands[0].Count)
	require.Contains(t, decoded.Errors, BadArgErrKey)
}

func TestConcurrentCommandStats(t *testing.T) {
	st := NewStats()
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.AddCommandStat("shared", "size", 0)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(800), st.CommandCount("shared", "size"))
}

func TestWritePrometheus(t *testing.T) {
	st := NewStats()
	st.AddCommandStat("p", "swap", time.Millisecond)
	var buf bytes.Buffer
	WritePrometheus(&buf, false)
	require.Contains(t, buf.String(), `strqueue_commands_total{command="swap"}`)
}

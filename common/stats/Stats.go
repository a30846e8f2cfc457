package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// error classes
const (
	UnknownCmdErrKey = "unknown_command"
	BadArgErrKey     = "bad_argument"
	NoQueueErrKey    = "no_queue"
	MismatchErrKey   = "mismatch"
	OtherErrKey      = "other"
)

const metricPrefix = "strqueue"

type (
	JSONAtomicI64 struct {
		atomic.Int64
	}
	CommandStat struct {
		Command string        `json:"name"`
		Count   JSONAtomicI64 `json:"count"`
	}
	CommandStatList struct {
		Data []*CommandStat `json:"commands"`
		mu   sync.Mutex
	}
	Stats struct {
		Sessions []string                    `json:"sessions"`
		Stats    map[string]*CommandStatList `json:"stats"` // session : {command, count}
		ErrorMap map[string]*JSONAtomicI64   `json:"errors"`
		rwMu     sync.RWMutex
	}
)

func (f *JSONAtomicI64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%v", f.Load())), nil
}

func NewCommandStat(cmd string) *CommandStat {
	return &CommandStat{Command: cmd, Count: JSONAtomicI64{}}
}

func (p *CommandStat) String() string {
	return fmt.Sprintf("\"%v\": %v", p.Command, p.Count.Load())
}

func NewCommandStatList() *CommandStatList {
	return &CommandStatList{Data: make([]*CommandStat, 0), mu: sync.Mutex{}}
}

func (csl *CommandStatList) String() string {
	csl.mu.Lock()
	defer csl.mu.Unlock()
	s := make([]string, 0, len(csl.Data))
	for _, c := range csl.Data {
		s = append(s, c.String())
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// Inc bumps the counter of cmd, adding it in sorted position when new.
func (csl *CommandStatList) Inc(cmd string) {
	csl.mu.Lock()
	defer csl.mu.Unlock()
	ind, found := slices.BinarySearchFunc(csl.Data, cmd, func(r *CommandStat, target string) int {
		return strings.Compare(r.Command, target)
	})
	if found {
		csl.Data[ind].Count.Add(1)
		return
	}
	st := NewCommandStat(cmd)
	st.Count.Add(1)
	csl.Data = slices.Insert(csl.Data, ind, st)
}

func (csl *CommandStatList) Get(cmd string) int64 {
	csl.mu.Lock()
	defer csl.mu.Unlock()
	ind, found := slices.BinarySearchFunc(csl.Data, cmd, func(r *CommandStat, target string) int {
		return strings.Compare(r.Command, target)
	})
	if !found {
		return 0
	}
	return csl.Data[ind].Count.Load()
}

func NewStats() *Stats {
	errorMap := map[string]*JSONAtomicI64{
		UnknownCmdErrKey: {},
		BadArgErrKey:     {},
		NoQueueErrKey:    {},
		MismatchErrKey:   {},
		OtherErrKey:      {},
	}
	return &Stats{
		Sessions: make([]string, 0),
		Stats:    make(map[string]*CommandStatList),
		ErrorMap: errorMap,
		rwMu:     sync.RWMutex{},
	}
}

func (st *Stats) String() string {
	st.rwMu.RLock()
	defer st.rwMu.RUnlock()
	s1 := fmt.Sprintf("Sessions: %v\n", st.Sessions)
	s2 := "Stats: "
	if len(st.Stats) == 0 {
		s2 += "[]\n"
	} else {
		s2 += "\n"
		keys := make([]string, 0, len(st.Stats))
		for k := range st.Stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s2 += fmt.Sprintf("  %v: %v\n", k, st.Stats[k])
		}
	}
	keys := make([]string, 0, len(st.ErrorMap))
	for k := range st.ErrorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := make([]string, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, fmt.Sprintf("\"%v\": %v", k, st.ErrorMap[k].Load()))
	}
	return s1 + s2 + "Errors: {" + strings.Join(errs, ", ") + "}\n"
}

func (st *Stats) JSON() ([]byte, error) {
	st.rwMu.RLock()
	defer st.rwMu.RUnlock()
	return json.Marshal(st)
}

func (st *Stats) AddSession(session string) {
	st.rwMu.Lock()
	defer st.rwMu.Unlock()
	ind, found := slices.BinarySearch(st.Sessions, session)
	if found {
		return
	}
	st.Sessions = slices.Insert(st.Sessions, ind, session)
	metrics.GetOrCreateCounter(metricPrefix + "_sessions_opened_total").Inc()
}

func (st *Stats) DelSession(session string) {
	st.rwMu.Lock()
	defer st.rwMu.Unlock()
	delete(st.Stats, session)
	ind, found := slices.BinarySearch(st.Sessions, session)
	if !found {
		return
	}
	st.Sessions = slices.Delete(st.Sessions, ind, ind+1)
	metrics.GetOrCreateCounter(metricPrefix + "_sessions_closed_total").Inc()
}

// AddCommandStat counts one run of cmd in session.
func (st *Stats) AddCommandStat(session, cmd string, took time.Duration) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s_commands_total{command=%q}`, metricPrefix, cmd)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`%s_command_duration_seconds{command=%q}`, metricPrefix, cmd)).Update(took.Seconds())

	st.rwMu.RLock()
	if csl, ok := st.Stats[session]; ok {
		csl.Inc(cmd)
		st.rwMu.RUnlock()
		return
	}
	st.rwMu.RUnlock()
	st.rwMu.Lock()
	defer st.rwMu.Unlock()
	if _, ok := st.Stats[session]; !ok {
		st.Stats[session] = NewCommandStatList()
	}
	st.Stats[session].Inc(cmd)
}

func (st *Stats) CommandCount(session, cmd string) int64 {
	st.rwMu.RLock()
	defer st.rwMu.RUnlock()
	if csl, ok := st.Stats[session]; ok {
		return csl.Get(cmd)
	}
	return 0
}

func (st *Stats) IncErrStat(key string) {
	st.rwMu.RLock()
	defer st.rwMu.RUnlock()
	if _, ok := st.ErrorMap[key]; !ok {
		key = OtherErrKey
	}
	st.ErrorMap[key].Add(1)
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s_errors_total{kind=%q}`, metricPrefix, key)).Inc()
}

func (st *Stats) ErrCount(key string) int64 {
	st.rwMu.RLock()
	defer st.rwMu.RUnlock()
	if c, ok := st.ErrorMap[key]; ok {
		return c.Load()
	}
	return 0
}

// WritePrometheus dumps every strqueue metric in text exposition format.
func WritePrometheus(w io.Writer, exposeProcessMetrics bool) {
	metrics.WritePrometheus(w, exposeProcessMetrics)
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Qthai16/strqueue/common/console"
	"github.com/Qthai16/strqueue/common/lru"
	"github.com/Qthai16/strqueue/common/pool"
	"github.com/Qthai16/strqueue/common/rpc"
	"github.com/Qthai16/strqueue/common/stats"
	"github.com/Qthai16/strqueue/utils"
	"github.com/Qthai16/strqueue/utils/hashkit"
)

var (
	ErrNoSession    = errors.New("missing session id")
	ErrCommandPanic = errors.New("command failed")
)

type session struct {
	mu      sync.Mutex
	console *console.Console
	closed  bool
}

// release frees every queue of the session. Later calls are no-ops.
func (s *session) release() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.closed = true
	return s.console.Close()
}

// SessionHandler serves exec calls, one console per session id. Sessions
// live in an LRU table; the least recently used ones are freed when it
// overflows.
type SessionHandler struct {
	sessions *lru.LRUTable[*session]
	statsMu  sync.Mutex // orders session list updates of one id
	stats    *stats.Stats
	buffers  *pool.TPool[bytes.Buffer]
	opts     console.Options
}

var _ rpc.Handler = (*SessionHandler)(nil)

func NewSessionHandler(conf *Config, st *stats.Stats) (*SessionHandler, error) {
	hash, err := hashkit.Lookup32(conf.Hash)
	if err != nil {
		return nil, err
	}
	h := &SessionHandler{
		stats:   st,
		buffers: pool.NewBufferPool(),
		opts: console.Options{
			Compare: conf.Compare,
			Length:  conf.Length,
		},
	}
	h.sessions, err = lru.NewLRUTableConf(lru.LRUConfig[*session]{
		TableSize: conf.MaxSessions,
		Shards:    conf.Shards,
		Hash32:    hash,
		EvictCb:   h.onEvict,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (h *SessionHandler) onEvict(item *lru.LRUItem[*session]) {
	n := item.Value.release()
	h.statsMu.Lock()
	// the id may already be back in the table under a new session
	if _, live := h.sessions.Peek(item.Key); !live {
		h.stats.DelSession(item.Key)
	}
	h.statsMu.Unlock()
	utils.LogInfo("[qserver][%v] session closed, released %v elements", item.Key, n)
}

func (h *SessionHandler) newSession(id string) func() *session {
	return func() *session {
		return &session{
			console: console.New(io.Discard, console.Config{
				Session: id,
				Stats:   h.stats,
				Options: h.opts,
			}),
		}
	}
}

// acquire returns the locked session for id, creating it when needed.
func (h *SessionHandler) acquire(id string) *session {
	for {
		s, created := h.sessions.GetOrCreate(id, h.newSession(id))
		if created {
			h.statsMu.Lock()
			h.stats.AddSession(id)
			h.statsMu.Unlock()
			utils.LogInfo("[qserver][%v] session opened", id)
		}
		s.mu.Lock()
		if !s.closed {
			return s
		}
		// evicted between lookup and lock
		s.mu.Unlock()
	}
}

func (h *SessionHandler) Exec(ctx context.Context, req *rpc.ExecRequest) (*rpc.ExecReply, error) {
	if req.Session == "" {
		return &rpc.ExecReply{Ok: false, Output: []string{}, Error: ErrNoSession.Error()}, nil
	}
	s := h.acquire(req.Session)
	buf := h.buffers.Get()
	defer h.buffers.Put(&buf)
	err := s.exec(req.Line, buf)

	reply := &rpc.ExecReply{Ok: err == nil, Output: splitLines(buf.String())}
	if errors.Is(err, console.ErrQuit) {
		reply.Ok = true
		h.sessions.Remove(req.Session)
	} else if err != nil {
		reply.Error = err.Error()
	}
	return reply, nil
}

// exec runs line on the locked session and unlocks it. A panicking command
// is reported as an error so the server and the other sessions keep going.
func (s *session) exec(line string, out io.Writer) (err error) {
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			utils.LogErro("[qserver][%v] %q panicked: %v", s.console.Session, line, r)
			err = fmt.Errorf("%w: %v", ErrCommandPanic, r)
		}
		s.console.SetOutput(io.Discard)
	}()
	s.console.SetOutput(out)
	return s.console.Exec(line)
}

// Sessions counts the live sessions.
func (h *SessionHandler) Sessions() uint32 {
	return h.sessions.Size()
}

// Close frees every session.
func (h *SessionHandler) Close() {
	h.sessions.Purge()
	gets, allocs := h.buffers.Counts()
	utils.LogInfo("[qserver] output buffers: %v gets, %v allocated", gets, allocs)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

package pool

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/Qthai16/strqueue/common"
	"github.com/Qthai16/strqueue/common/rpc"
	"github.com/Qthai16/strqueue/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

var (
	ErrInvalidParam   = errors.New("invalid param")
	ErrMaxConnReached = errors.New("max connection reached")
	ErrPoolClosed     = errors.New("pool is closed")
	ErrNoConnection   = errors.New("no connection")
)

const (
	defaultPoolSize  = 64
	defaultAliveIntv = 3 * time.Second
	defaultSlots     = 10
)

type Pool2Config struct {
	Host           string
	MaxOpenConn    int32
	AliveCheckIntv time.Duration // minimum wait before a dead pool dials again
	ConnConf       *thrift.TConfiguration
}

func PoolDefaultConf(host string, connConf *thrift.TConfiguration) *Pool2Config {
	return &Pool2Config{
		Host:           host,
		MaxOpenConn:    defaultPoolSize,
		AliveCheckIntv: defaultAliveIntv,
		ConnConf:       connConf,
	}
}

// Conn is one open connection to the queue service.
type Conn struct {
	*rpc.Client
	Trans thrift.TTransport
}

func (c *Conn) Close() error {
	if c.Trans != nil { // close anyway to avoid leak
		return c.Trans.Close()
	}
	return nil
}

// Dialer opens a connection for the pool; DialConn is used when nil.
type Dialer func(conf *Pool2Config) (*Conn, error)

func DialConn(conf *Pool2Config) (*Conn, error) {
	client, trans, err := rpc.NewSocketClient(conf.Host, conf.ConnConf)
	if err != nil {
		return nil, err
	}
	return &Conn{Client: client, Trans: trans}, nil
}

// Pool2 caches connections to one queue server. A pool goes dead when
// dialing fails or a transport error is reported, and refuses Get until
// AliveCheckIntv has passed.
type Pool2 struct {
	Pool2Config
	dial         Dialer
	connections  chan *Conn
	slots        chan struct{}
	numOpenConn  atomic.Int32
	isClosed     atomic.Bool
	isAlive      atomic.Bool
	lastDeadTime atomic.Int64 // unix nano
}

func NewClientPool(conf *Pool2Config, dial Dialer) (*Pool2, error) {
	if err := validatePoolConf(conf); err != nil {
		utils.LogErro("[pool2] invalid pool config: %v", err)
		return nil, err
	}
	if dial == nil {
		dial = DialConn
	}
	p := &Pool2{
		Pool2Config: *conf,
		dial:        dial,
		connections: make(chan *Conn, conf.MaxOpenConn),
		slots:       make(chan struct{}, defaultSlots),
	}
	p.isAlive.Store(true)
	return p, nil
}

func validatePoolConf(conf *Pool2Config) error {
	if conf == nil || conf.Host == "" || conf.MaxOpenConn <= 0 {
		return ErrInvalidParam
	}
	return nil
}

func (p *Pool2) markDead(reason string) {
	if p.isAlive.CompareAndSwap(true, false) {
		p.lastDeadTime.Store(time.Now().UnixNano())
		utils.LogInfo("[pool2][%v] dead: %v", p.Host, reason)
	}
}

func (p *Pool2) sinceDead() time.Duration {
	return time.Since(time.Unix(0, p.lastDeadTime.Load()))
}

func (p *Pool2) Get() (*Conn, error) {
	if p.isClosed.Load() {
		return nil, ErrPoolClosed
	}
	if !p.isAlive.Load() {
		if p.sinceDead() < p.AliveCheckIntv {
			return nil, ErrNoConnection
		}
		p.isAlive.CompareAndSwap(false, true)
	}
	p.slots <- struct{}{}
	defer func() {
		<-p.slots
	}()
	select {
	case conn, ok := <-p.connections:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conn, nil
	default:
	}
	if p.numOpenConn.Load() < p.MaxOpenConn {
		conn, err := p.dial(&p.Pool2Config)
		if err != nil {
			p.markDead(err.Error())
			return nil, ErrNoConnection
		}
		p.numOpenConn.Add(1)
		return conn, nil
	}
	conn, ok, timedOut := common.WaitTimeout(p.connections, p.ConnConf.GetConnectTimeout())
	if timedOut {
		return nil, ErrMaxConnReached
	}
	if !ok {
		return nil, ErrPoolClosed
	}
	return conn, nil
}

func (p *Pool2) Put(conn *Conn) {
	if conn == nil {
		return
	}
	if p.isClosed.Load() || !p.isAlive.Load() {
		p.discard(conn)
		return
	}
	select {
	case p.connections <- conn:
	default:
		p.discard(conn)
	}
}

func (p *Pool2) discard(conn *Conn) {
	conn.Close()
	p.numOpenConn.Add(-1)
}

// Len is the number of idle connections.
func (p *Pool2) Len() int {
	return len(p.connections)
}

// NumOpen counts idle and borrowed connections.
func (p *Pool2) NumOpen() int32 {
	return p.numOpenConn.Load()
}

func (p *Pool2) IsAlive() bool {
	return p.isAlive.Load()
}

func (p *Pool2) Destroy() {
	if p.isClosed.CompareAndSwap(false, true) {
		close(p.connections)
		for conn := range p.connections {
			p.discard(conn)
		}
		utils.LogInfo("[pool2][%v] pool is destroyed", p.Host)
	}
}

// InvalidConn2 closes a connection that failed with err. Transport errors
// also drop every idle connection and mark the pool dead.
func (p *Pool2) InvalidConn2(conn *Conn, err error) {
	if conn == nil || err == nil {
		return
	}
	if rpc.IsConnError(err) && p.isAlive.Load() {
		for drained := false; !drained; {
			select {
			case c, ok := <-p.connections:
				if !ok {
					drained = true
					break
				}
				p.discard(c)
			default:
				drained = true
			}
		}
		p.markDead("transport error: " + err.Error())
	}
	p.discard(conn)
	if p.numOpenConn.Load() == 0 {
		p.markDead("no open connection")
	}
}

// PutIfValid returns conn to the pool unless the call on it failed at the
// transport level. Application errors keep the connection.
func (p *Pool2) PutIfValid(conn *Conn, err error) {
	if err != nil && rpc.IsConnError(err) {
		p.InvalidConn2(conn, err)
		return
	}
	p.Put(conn)
}

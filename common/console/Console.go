package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Qthai16/strqueue/common/queue"
	"github.com/Qthai16/strqueue/common/stats"
	"github.com/Qthai16/strqueue/utils"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoQueue        = errors.New("no current queue, use `new` first")
	ErrEmptyQueue     = errors.New("queue is empty")
	ErrBadArgument    = errors.New("bad argument")
	ErrMismatch       = errors.New("mismatch")
	ErrQuit           = errors.New("quit")
)

const (
	DefaultLength = 1024
	MaxLength     = 1 << 20 // largest removal buffer
	MaxRepeat     = 1 << 16 // largest repeat count of ih, it and size
	CmpLexical    = "lexical"
	CmpNatural    = "natural"
	// RandomValue as the ih/it argument inserts a random lowercase string.
	RandomValue = "RAND"
)

type Options struct {
	Compare string // CmpLexical or CmpNatural
	Length  int    // bytes kept from a removed value
	Echo    bool   // print every command before running it
}

func DefaultOptions() Options {
	return Options{
		Compare: CmpLexical,
		Length:  DefaultLength,
		Echo:    false,
	}
}

type Config struct {
	Session string
	Stats   *stats.Stats // optional, shared between consoles
	Seed    int64        // RAND source seed, 0 means time based
	Options Options
}

type queueCtx struct {
	id int
	q  *queue.Queue
}

// Console interprets queue commands against a chain of queues, one of which
// is current. A Console is not safe for concurrent use.
type Console struct {
	Config
	chain   []*queueCtx
	current int // index in chain, -1 when the chain is empty
	nextID  int
	cmp     queue.Compare
	out     io.Writer
	rand    *rand.Rand
}

func New(out io.Writer, conf Config) *Console {
	if conf.Options.Compare == "" {
		conf.Options.Compare = CmpLexical
	}
	if conf.Options.Length <= 0 {
		conf.Options.Length = DefaultLength
	}
	if conf.Options.Length > MaxLength {
		conf.Options.Length = MaxLength
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &Console{
		Config:  conf,
		chain:   make([]*queueCtx, 0),
		current: -1,
		out:     out,
		rand:    rand.New(rand.NewSource(seed)),
	}
	c.cmp = compareOf(conf.Options.Compare)
	return c
}

func compareOf(name string) queue.Compare {
	if name == CmpNatural {
		return queue.Natural
	}
	return queue.Lexical
}

// SetOutput redirects command output, e.g. to a per-request buffer.
func (c *Console) SetOutput(w io.Writer) {
	c.out = w
}

func (c *Console) printf(format string, v ...interface{}) {
	fmt.Fprintf(c.out, format, v...)
}

func (c *Console) cur() *queueCtx {
	if c.current < 0 {
		return nil
	}
	return c.chain[c.current]
}

// Exec runs one command line. Blank lines and # comments are ignored.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if c.Options.Echo {
		c.printf("cmd> %v\n", line)
	}
	args := strings.Fields(line)
	cmd, ok := commands[args[0]]
	if !ok {
		err := fmt.Errorf("%w: %v", ErrUnknownCommand, args[0])
		c.record("", 0, err)
		return err
	}
	if cmd.needQueue && c.cur() == nil {
		c.record(args[0], 0, ErrNoQueue)
		return ErrNoQueue
	}
	if len(args)-1 < cmd.minArgs || (cmd.maxArgs >= 0 && len(args)-1 > cmd.maxArgs) {
		err := fmt.Errorf("%w: usage: %v", ErrBadArgument, cmd.usage)
		c.record(args[0], 0, err)
		return err
	}
	start := time.Now()
	err := cmd.fn(c, args[1:])
	c.record(args[0], time.Since(start), err)
	utils.LogDebug("[console][%v] %v: err=%v", c.Session, line, err)
	return err
}

func (c *Console) record(cmd string, took time.Duration, err error) {
	if c.Stats == nil {
		return
	}
	if cmd != "" {
		c.Stats.AddCommandStat(c.Session, cmd, took)
	}
	if err == nil || errors.Is(err, ErrQuit) {
		return
	}
	switch {
	case errors.Is(err, ErrUnknownCommand):
		c.Stats.IncErrStat(stats.UnknownCmdErrKey)
	case errors.Is(err, ErrBadArgument):
		c.Stats.IncErrStat(stats.BadArgErrKey)
	case errors.Is(err, ErrNoQueue):
		c.Stats.IncErrStat(stats.NoQueueErrKey)
	case errors.Is(err, ErrMismatch):
		c.Stats.IncErrStat(stats.MismatchErrKey)
	default:
		c.Stats.IncErrStat(stats.OtherErrKey)
	}
}

// Run executes every line of r until EOF or `quit`. Failed commands are
// reported on the output and counted; they do not stop the script.
func (c *Console) Run(r io.Reader) (failed int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		err := c.Exec(scanner.Text())
		if errors.Is(err, ErrQuit) {
			break
		}
		if err != nil {
			c.printf("ERROR: %v\n", err)
			failed++
		}
	}
	return failed, scanner.Err()
}

// Close frees every queue in the chain and returns the number of released
// elements.
func (c *Console) Close() int {
	n := 0
	for _, ctx := range c.chain {
		n += ctx.q.Free()
	}
	c.chain = c.chain[:0]
	c.current = -1
	return n
}

// Queues returns the values of every queue in the chain, for inspection.
func (c *Console) Queues() [][]string {
	all := make([][]string, 0, len(c.chain))
	for _, ctx := range c.chain {
		all = append(all, ctx.q.Values())
	}
	return all
}

// Current returns the values of the current queue, nil when there is none.
func (c *Console) Current() []string {
	if ctx := c.cur(); ctx != nil {
		return ctx.q.Values()
	}
	return nil
}

func (c *Console) show() {
	if ctx := c.cur(); ctx != nil {
		c.printf("l = %v\n", ctx.q)
		return
	}
	c.printf("l = NULL\n")
}

func (c *Console) randomString() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 5+c.rand.Intn(6))
	for i := range b {
		b[i] = letters[c.rand.Intn(len(letters))]
	}
	return string(b)
}

func Help(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-26v| %v\n", commands[name].usage, commands[name].help)
	}
}

package console

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Qthai16/strqueue/common/queue"
	"github.com/Qthai16/strqueue/utils/hashkit"
)

type command struct {
	fn        func(c *Console, args []string) error
	usage     string
	help      string
	needQueue bool
	minArgs   int
	maxArgs   int // -1: unbounded
}

// commands is filled in init, the help command walks it.
var commands map[string]command

func init() {
	commands = map[string]command{
		"new":      {fn: cmdNew, usage: "new", help: "Create new queue and make it current", maxArgs: 0},
		"free":     {fn: cmdFree, usage: "free", help: "Delete current queue", needQueue: true, maxArgs: 0},
		"prev":     {fn: cmdPrev, usage: "prev", help: "Switch to previous queue", needQueue: true, maxArgs: 0},
		"next":     {fn: cmdNext, usage: "next", help: "Switch to next queue", needQueue: true, maxArgs: 0},
		"ih":       {fn: cmdInsertHead, usage: "ih str [n]", help: "Insert string str at head n times (RAND: random)", needQueue: true, minArgs: 1, maxArgs: 2},
		"it":       {fn: cmdInsertTail, usage: "it str [n]", help: "Insert string str at tail n times (RAND: random)", needQueue: true, minArgs: 1, maxArgs: 2},
		"rh":       {fn: cmdRemoveHead, usage: "rh [str]", help: "Remove from head, optionally compare to str", needQueue: true, maxArgs: 1},
		"rt":       {fn: cmdRemoveTail, usage: "rt [str]", help: "Remove from tail, optionally compare to str", needQueue: true, maxArgs: 1},
		"size":     {fn: cmdSize, usage: "size [n]", help: "Compute queue size n times", needQueue: true, maxArgs: 1},
		"show":     {fn: cmdShow, usage: "show", help: "Show every queue in the chain", maxArgs: 0},
		"dm":       {fn: cmdDeleteMid, usage: "dm", help: "Delete middle element", needQueue: true, maxArgs: 0},
		"dedup":    {fn: cmdDedup, usage: "dedup", help: "Delete every repeated value of a sorted queue", needQueue: true, maxArgs: 0},
		"swap":     {fn: cmdSwap, usage: "swap", help: "Swap every two adjacent elements", needQueue: true, maxArgs: 0},
		"reverse":  {fn: cmdReverse, usage: "reverse", help: "Reverse queue", needQueue: true, maxArgs: 0},
		"reverseK": {fn: cmdReverseK, usage: "reverseK k", help: "Reverse every k elements", needQueue: true, minArgs: 1, maxArgs: 1},
		"sort":     {fn: cmdSort, usage: "sort", help: "Sort queue in ascending order", needQueue: true, maxArgs: 0},
		"descend":  {fn: cmdDescend, usage: "descend", help: "Keep elements greater than everything on their right", needQueue: true, maxArgs: 0},
		"ascend":   {fn: cmdAscend, usage: "ascend", help: "Keep elements smaller than everything on their right", needQueue: true, maxArgs: 0},
		"merge":    {fn: cmdMerge, usage: "merge", help: "Merge all sorted queues into the first one", needQueue: true, maxArgs: 0},
		"hash":     {fn: cmdHash, usage: "hash [algo]", help: "Fingerprint current queue (jenkins, fnv, murmur, murmur64)", needQueue: true, maxArgs: 1},
		"option":   {fn: cmdOption, usage: "option [name value]", help: "Show or set options: cmp, length, echo", maxArgs: 2},
		"stats":    {fn: cmdStats, usage: "stats", help: "Show command statistics", maxArgs: 0},
		"help":     {fn: cmdHelp, usage: "help", help: "Show this help", maxArgs: 0},
		"quit":     {fn: cmdQuit, usage: "quit", help: "Stop the script", maxArgs: 0},
	}
}

func positive(arg, name string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %v must be a positive integer, got %q", ErrBadArgument, name, arg)
	}
	return n, nil
}

// bounded is positive with an inclusive upper limit.
func bounded(arg, name string, max int) (int, error) {
	n, err := positive(arg, name)
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, fmt.Errorf("%w: %v must be at most %d, got %d", ErrBadArgument, name, max, n)
	}
	return n, nil
}

func cmdNew(c *Console, args []string) error {
	c.chain = append(c.chain, &queueCtx{id: c.nextID, q: queue.New()})
	c.nextID++
	c.current = len(c.chain) - 1
	c.show()
	return nil
}

func cmdFree(c *Console, args []string) error {
	c.cur().q.Free()
	c.chain = append(c.chain[:c.current], c.chain[c.current+1:]...)
	if c.current >= len(c.chain) {
		c.current = len(c.chain) - 1
	}
	c.show()
	return nil
}

func cmdPrev(c *Console, args []string) error {
	if c.current == 0 {
		return fmt.Errorf("%w: already at the first queue", ErrBadArgument)
	}
	c.current--
	c.show()
	return nil
}

func cmdNext(c *Console, args []string) error {
	if c.current == len(c.chain)-1 {
		return fmt.Errorf("%w: already at the last queue", ErrBadArgument)
	}
	c.current++
	c.show()
	return nil
}

func (c *Console) insert(args []string, insertFn func(q *queue.Queue, v string) error) error {
	n := 1
	if len(args) > 1 {
		var err error
		if n, err = bounded(args[1], "n", MaxRepeat); err != nil {
			return err
		}
	}
	q := c.cur().q
	for i := 0; i < n; i++ {
		v := args[0]
		if v == RandomValue {
			v = c.randomString()
		}
		if err := insertFn(q, v); err != nil {
			return err
		}
	}
	c.show()
	return nil
}

func cmdInsertHead(c *Console, args []string) error {
	return c.insert(args, (*queue.Queue).InsertHead)
}

func cmdInsertTail(c *Console, args []string) error {
	return c.insert(args, (*queue.Queue).InsertTail)
}

func (c *Console) remove(args []string, removeFn func(q *queue.Queue, buf []byte) *queue.Element) error {
	buf := make([]byte, c.Options.Length+1)
	e := removeFn(c.cur().q, buf)
	if e == nil {
		return ErrEmptyQueue
	}
	defer queue.Release(e)
	removed := string(buf[:bytes.IndexByte(buf, 0)])
	if len(args) > 0 && removed != args[0] {
		return fmt.Errorf("%w: removed %q, expected %q", ErrMismatch, removed, args[0])
	}
	c.printf("Removed %v from queue\n", removed)
	c.show()
	return nil
}

func cmdRemoveHead(c *Console, args []string) error {
	return c.remove(args, (*queue.Queue).RemoveHead)
}

func cmdRemoveTail(c *Console, args []string) error {
	return c.remove(args, (*queue.Queue).RemoveTail)
}

func cmdSize(c *Console, args []string) error {
	reps := 1
	if len(args) > 0 {
		var err error
		if reps, err = bounded(args[0], "n", MaxRepeat); err != nil {
			return err
		}
	}
	size := 0
	for i := 0; i < reps; i++ {
		size = c.cur().q.Size()
	}
	c.printf("Queue size = %d\n", size)
	c.show()
	return nil
}

func cmdShow(c *Console, args []string) error {
	if len(c.chain) == 0 {
		c.printf("No queues\n")
		return nil
	}
	for i, ctx := range c.chain {
		mark := " "
		if i == c.current {
			mark = "*"
		}
		c.printf("%vQueue ID: %d, size: %d: %v\n", mark, ctx.id, ctx.q.Size(), ctx.q)
	}
	return nil
}

func cmdDeleteMid(c *Console, args []string) error {
	if !c.cur().q.DeleteMid() {
		return ErrEmptyQueue
	}
	c.show()
	return nil
}

func cmdDedup(c *Console, args []string) error {
	c.cur().q.DeleteDupFunc(c.cmp)
	c.show()
	return nil
}

func cmdSwap(c *Console, args []string) error {
	c.cur().q.Swap()
	c.show()
	return nil
}

func cmdReverse(c *Console, args []string) error {
	c.cur().q.Reverse()
	c.show()
	return nil
}

func cmdReverseK(c *Console, args []string) error {
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: k must be an integer, got %q", ErrBadArgument, args[0])
	}
	c.cur().q.ReverseK(k)
	c.show()
	return nil
}

func cmdSort(c *Console, args []string) error {
	c.cur().q.SortFunc(c.cmp)
	c.show()
	return nil
}

func cmdDescend(c *Console, args []string) error {
	n := c.cur().q.DescendFunc(c.cmp)
	c.printf("Remaining %d elements\n", n)
	c.show()
	return nil
}

func cmdAscend(c *Console, args []string) error {
	n := c.cur().q.AscendFunc(c.cmp)
	c.printf("Remaining %d elements\n", n)
	c.show()
	return nil
}

// cmdMerge merges the whole chain into its first queue and drops the others.
func cmdMerge(c *Console, args []string) error {
	queues := make([]*queue.Queue, 0, len(c.chain))
	for _, ctx := range c.chain {
		queues = append(queues, ctx.q)
	}
	n := queue.MergeFunc(queues, c.cmp)
	for _, ctx := range c.chain[1:] {
		ctx.q.Free()
	}
	c.chain = c.chain[:1]
	c.current = 0
	c.printf("Merged %d elements\n", n)
	c.show()
	return nil
}

func cmdHash(c *Console, args []string) error {
	algo := hashkit.Murmur64Name
	if len(args) > 0 {
		algo = args[0]
	}
	var data []byte
	c.cur().q.Each(func(e *queue.Element) bool {
		data = append(data, e.Value...)
		data = append(data, 0)
		return true
	})
	sum, err := hashkit.Sum64(algo, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	c.printf("hash(%v) = 0x%016x\n", algo, sum)
	return nil
}

func cmdOption(c *Console, args []string) error {
	switch len(args) {
	case 0:
		c.printf("cmp = %v\nlength = %d\necho = %v\n", c.Options.Compare, c.Options.Length, c.Options.Echo)
		return nil
	case 1:
		return fmt.Errorf("%w: option %v needs a value", ErrBadArgument, args[0])
	}
	name, value := args[0], args[1]
	switch name {
	case "cmp":
		if value != CmpLexical && value != CmpNatural {
			return fmt.Errorf("%w: cmp must be %v or %v", ErrBadArgument, CmpLexical, CmpNatural)
		}
		c.Options.Compare = value
		c.cmp = compareOf(value)
	case "length":
		n, err := bounded(value, "length", MaxLength)
		if err != nil {
			return err
		}
		c.Options.Length = n
	case "echo":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: echo must be 0 or 1", ErrBadArgument)
		}
		c.Options.Echo = b
	default:
		return fmt.Errorf("%w: unknown option %v", ErrBadArgument, name)
	}
	return nil
}

func cmdStats(c *Console, args []string) error {
	if c.Stats == nil {
		c.printf("stats disabled\n")
		return nil
	}
	data, err := c.Stats.JSON()
	if err != nil {
		return err
	}
	c.printf("%s\n", data)
	return nil
}

func cmdHelp(c *Console, args []string) error {
	Help(c.out)
	return nil
}

func cmdQuit(c *Console, args []string) error {
	return ErrQuit
}

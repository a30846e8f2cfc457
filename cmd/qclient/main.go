package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Qthai16/strqueue/common/pool"
	"github.com/Qthai16/strqueue/common/rpc"
	"github.com/Qthai16/strqueue/utils"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:        "qclient",
		Usage:       "replay a queue script against a qserver",
		Description: "sends every script line to the server and prints the replies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "server address",
				Value: "127.0.0.1:18000",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read commands from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "session id, a random uuid when empty",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "replay the script in `N` sessions at once",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "connect and socket timeout",
				Value: 5 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep the sessions open on the server when done",
			},
			&cli.StringFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log level",
				Value:   "warn",
			},
		},
		Action: runClient,
	}
}

func readScript(path string) ([]string, error) {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	lines := make([]string, 0)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

type replayer struct {
	pool   *pool.Pool2
	out    io.Writer
	outMu  sync.Mutex
	prefix bool
	keep   bool
	failed atomic.Int64
}

func (r *replayer) print(session string, lines []string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	for _, line := range lines {
		if r.prefix {
			fmt.Fprintf(r.out, "[%v] ", session)
		}
		fmt.Fprintln(r.out, line)
	}
}

func (r *replayer) exec(ctx context.Context, session, line string) (*rpc.ExecReply, error) {
	conn, err := r.pool.Get()
	if err != nil {
		return nil, err
	}
	reply, err := conn.Exec(ctx, session, line)
	r.pool.PutIfValid(conn, err)
	return reply, err
}

// replay runs the script in session and stops on transport failures.
func (r *replayer) replay(ctx context.Context, session string, script []string) {
	quit := false
	for _, line := range script {
		reply, err := r.exec(ctx, session, line)
		if err != nil {
			r.failed.Add(1)
			r.print(session, []string{"ERROR: " + rpc.ErrorText(err)})
			if rpc.IsConnError(err) || errors.Is(err, pool.ErrNoConnection) || errors.Is(err, pool.ErrPoolClosed) {
				return
			}
			continue
		}
		r.print(session, reply.Output)
		if !reply.Ok {
			r.failed.Add(1)
			r.print(session, []string{"ERROR: " + reply.Error})
		}
		if line == "quit" {
			quit = true
			break
		}
	}
	if !quit && !r.keep {
		if _, err := r.exec(ctx, session, "quit"); err != nil {
			utils.LogWarn("[qclient][%v] close session: %v", session, err)
		}
	}
}

func runClient(ctx *cli.Context) error {
	if err := utils.SetLevel(ctx.String("verbose")); err != nil {
		return cli.Exit(err, 2)
	}
	parallel := ctx.Int("parallel")
	if parallel < 1 {
		return cli.Exit("parallel must be positive", 2)
	}
	script, err := readScript(ctx.String("file"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	timeout := ctx.Duration("timeout")
	poolConf := pool.PoolDefaultConf(ctx.String("addr"), &thrift.TConfiguration{
		ConnectTimeout: timeout,
		SocketTimeout:  timeout,
	})
	poolConf.MaxOpenConn = int32(parallel)
	p, err := pool.NewClientPool(poolConf, nil)
	if err != nil {
		return cli.Exit(err, 2)
	}
	defer p.Destroy()

	r := &replayer{
		pool:   p,
		out:    ctx.App.Writer,
		prefix: parallel > 1,
		keep:   ctx.Bool("keep"),
	}
	base := ctx.String("session")
	if base == "" {
		base = uuid.NewString()
	}
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		session := base
		if parallel > 1 {
			session = fmt.Sprintf("%v-%d", base, i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.replay(ctx.Context, session, script)
		}()
	}
	wg.Wait()
	utils.LogInfo("[qclient] %d sessions, %d lines each, took %v", parallel, len(script), time.Since(start))
	if n := r.failed.Load(); n > 0 {
		return cli.Exit(fmt.Sprintf("%d commands failed", n), 1)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		utils.LogFatal("%v", err)
	}
}

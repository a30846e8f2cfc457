package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Qthai16/strqueue/common/rpc"
	"github.com/Qthai16/strqueue/common/stats"
	"github.com/Qthai16/strqueue/utils"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/sevlyar/go-daemon"
)

var cmdLineOpts = CmdlineOpts{}

type CmdlineOpts struct {
	ConfigPath  string
	Addr        string
	MetricsAddr string
	LogPath     string
	LogLevel    string
	Daemon      bool
}

func flagInit() {
	flag.StringVar(&cmdLineOpts.ConfigPath, "config", "", "yaml config file")
	flag.StringVar(&cmdLineOpts.Addr, "addr", "", "server listen addr")
	flag.StringVar(&cmdLineOpts.MetricsAddr, "metrics", "", "prometheus /metrics listen addr, disabled when empty")
	flag.StringVar(&cmdLineOpts.LogPath, "log", "", "log file path")
	flag.StringVar(&cmdLineOpts.LogLevel, "level", "", "log level")
	flag.BoolVar(&cmdLineOpts.Daemon, "daemon", false, "run as daemon")
}

// applyFlags overrides conf with the flags set on the command line.
func applyFlags(conf *Config, opts CmdlineOpts) {
	if opts.Addr != "" {
		conf.Addr = opts.Addr
	}
	if opts.MetricsAddr != "" {
		conf.MetricsAddr = opts.MetricsAddr
	}
	if opts.LogPath != "" {
		conf.LogPath = opts.LogPath
	}
	if opts.LogLevel != "" {
		conf.LogLevel = opts.LogLevel
	}
	if opts.Daemon {
		conf.Daemon = true
	}
}

func thriftConf(conf *Config) *thrift.TConfiguration {
	return &thrift.TConfiguration{
		SocketTimeout:      conf.ClientTimeout,
		MaxFrameSize:       conf.MaxFrameSize,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		stats.WritePrometheus(w, true)
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.LogErro("metrics-server: %v", err)
		}
	}()
	utils.LogInfo("metrics-server: listening on %v", addr)
	return srv
}

func run(conf *Config) {
	if len(conf.LogPath) > 0 {
		// stdout and stderr go to /dev/null in daemon mode, keep the log file
		f, err := utils.LogToFile(conf.LogPath)
		if err != nil {
			utils.LogErro("%v", err)
			return
		}
		defer f.Close()
	}
	st := stats.NewStats()
	handler, err := NewSessionHandler(conf, st)
	if err != nil {
		utils.LogErro("failed to create session handler: %v", err)
		return
	}
	defer handler.Close()

	prefix := "thrift-server"
	srv, err := rpc.NewServer(conf.Addr, handler, thriftConf(conf))
	if err != nil {
		utils.LogErro("%v: failed to create socket %v, err: %v", prefix, conf.Addr, err)
		return
	}
	if err = srv.Listen(); err != nil {
		utils.LogErro("%v: failed to listen, err: %v", prefix, err)
		return
	}
	utils.LogInfo("%v: listening on %v", prefix, srv.Addr())

	if len(conf.MetricsAddr) > 0 {
		msrv := startMetricsServer(conf.MetricsAddr)
		defer msrv.Shutdown(context.Background())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.Serve(); err != nil {
			utils.LogErro("%v: serve failed, err: %v", prefix, err)
		}
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-utils.WaitTerminate():
	}
	thrift.ServerStopTimeout = conf.StopTimeout
	srv.Stop()
	utils.LogInfo("server exit, sessions: %v, stats: %v", handler.Sessions(), st)
}

func uniqPidFile(dir string) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return filepath.Join(dir, fmt.Sprintf("qserver.%d.pid", r.Intn(10000)))
}

func main() {
	flagInit()
	flag.Parse()
	conf, err := LoadConfig(cmdLineOpts.ConfigPath)
	if err != nil {
		utils.LogErro("%v", err)
		os.Exit(1)
	}
	applyFlags(conf, cmdLineOpts)
	if err = conf.Validate(); err != nil {
		utils.LogErro("%v", err)
		os.Exit(1)
	}
	if err = utils.SetLevel(conf.LogLevel); err != nil {
		utils.LogErro("%v", err)
		os.Exit(1)
	}
	if conf.Daemon {
		utils.LogInfo("running process as daemon")
		cntxt := &daemon.Context{
			PidFileName: uniqPidFile(conf.PidDir),
			PidFilePerm: 0644,
		}
		d, err := cntxt.Reborn()
		if err != nil {
			utils.LogErro("failed to run as daemon: %v", err)
			return
		}
		if d != nil { // parent process
			return
		}
		defer cntxt.Release()
	}
	run(conf)
}

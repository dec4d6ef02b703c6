// FILE: lixenwraith/qlog/example/gnet/main.go
package main

import (
	"github.com/lixenwraith/qlog"
	"github.com/lixenwraith/qlog/compat"
	"github.com/panjf2000/gnet/v2"
	"go.uber.org/zap"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	log *zap.Logger
}

func (es *echoServer) OnBoot(eng gnet.Engine) gnet.Action {
	es.log.Info("echo server ready")
	return gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.log.Debug("echo", zap.Int("bytes", len(buf)), zap.String("remote", c.RemoteAddr().String()))
	c.Write(buf)
	return gnet.None
}

func main() {
	cfg, err := qlog.DefaultConfig().ApplyOverride(
		"enable_file=true",
		"directory=/var/log/gnet",
		"level=debug",
	)
	if err != nil {
		panic(err)
	}

	// One router shared by the gnet and zap adapters
	builder := compat.NewBuilder().WithConfig(cfg)
	gnetAdapter, err := builder.BuildGnet()
	if err != nil {
		panic(err)
	}
	defer builder.Pipeline().Shutdown()

	zapLogger, err := builder.BuildZap("echo")
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{log: zapLogger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}

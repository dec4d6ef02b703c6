// FILE: lixenwraith/qlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/qlog"
	"go.uber.org/zap"
)

// Builder creates adapters for gnet, fasthttp and zap that share one Router.
// It can use an existing Router or open a Pipeline from a *qlog.Config.
type Builder struct {
	router   *qlog.Router
	cfg      *qlog.Config
	pipeline *qlog.Pipeline
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithRouter specifies an existing router for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithRouter(r *qlog.Router) *Builder {
	if r == nil {
		b.err = fmt.Errorf("qlog/compat: provided router cannot be nil")
		return b
	}
	b.router = r
	return b
}

// WithConfig provides a configuration for a new pipeline.
// Used only if no router was provided via WithRouter. Without either, a
// pipeline with default configuration is opened.
func (b *Builder) WithConfig(cfg *qlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// getRouter resolves the router, opening a pipeline if necessary
func (b *Builder) getRouter() (*qlog.Router, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.router != nil {
		return b.router, nil
	}

	p, err := qlog.NewPipeline(b.cfg)
	if err != nil {
		return nil, err
	}

	// Cached for subsequent builds with this builder
	b.pipeline = p
	b.router = p.NewRouter()
	return b.router, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	r, err := b.getRouter()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(r, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	r, err := b.getRouter()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(r, opts...), nil
}

// BuildZap creates a zap logger backed by the router
func (b *Builder) BuildZap(system string, opts ...zap.Option) (*zap.Logger, error) {
	r, err := b.getRouter()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(r, system, opts...), nil
}

// GetRouter returns the router, opening a pipeline if none was provided
func (b *Builder) GetRouter() (*qlog.Router, error) {
	return b.getRouter()
}

// Pipeline returns the pipeline opened by the builder, or nil when an
// existing router was supplied. The caller owns its Shutdown.
func (b *Builder) Pipeline() *qlog.Pipeline {
	return b.pipeline
}

// --- Example Usage ---
//
//	pipeline, err := qlog.NewBuilder().LevelString("debug").Build()
//	if err != nil { /* handle error */ }
//	defer pipeline.Shutdown()
//
//	builder := compat.NewBuilder().WithRouter(pipeline.NewRouter())
//
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	zapLogger, _ := builder.BuildZap("storage")
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
//
//	zapLogger.Info("storage ready", zap.Int("shards", 4))

package cmd

import (
	"github.com/lepinkainen/bookshop/internal/api"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/lepinkainen/bookshop/internal/cover"
	"github.com/lepinkainen/bookshop/internal/ratelimit"
	"github.com/lepinkainen/bookshop/internal/tui"
)

var (
	runBrowser = tui.Run
	serveAPI   = api.Serve
)

// BrowseCmd opens the terminal browser
type BrowseCmd struct{}

// ServeCmd serves the JSON API
type ServeCmd struct {
	Addr       string `help:"Address to listen on (defaults to server.addr from config)"`
	ProbeRate  int    `help:"Cover probes per second for ?covers=resolve" default:"5"`
	NoCoverFix bool   `help:"Disable ?covers=resolve"`
}

func (b *BrowseCmd) Run(app *appContext) error {
	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	return runBrowser(app.ctx, store)
}

func (s *ServeCmd) Run(app *appContext) error {
	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	addr := s.Addr
	if addr == "" {
		addr = config.ListenAddr
	}

	var opts []api.Option
	if !s.NoCoverFix {
		opts = append(opts, api.WithCovers(newCoverResolver(s.ProbeRate)))
	}
	return serveAPI(app.ctx, addr, api.New(store, opts...).Routes())
}

func newCoverResolver(perSecond int) *cover.Resolver {
	opts := []cover.Option{cover.WithTTL(config.CoverCacheTTL)}
	if config.PlaceholderImage != "" {
		opts = append(opts, cover.WithPlaceholder(config.PlaceholderImage))
	}
	if perSecond > 0 {
		opts = append(opts, cover.WithLimiter(ratelimit.PerSecond("covers", perSecond)))
	}
	return cover.NewResolver(opts...)
}

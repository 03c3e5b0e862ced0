package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/beato-configurator/internal/broadcast"
	"github.com/woozymasta/beato-configurator/internal/notify"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/server"
	"github.com/woozymasta/beato-configurator/internal/session"
	"github.com/woozymasta/beato-configurator/internal/settings"
	"github.com/woozymasta/beato-configurator/internal/store"
)

type serveCmd struct {
	Config   string `short:"c" long:"config" env:"CONFIGURATOR_CONFIG" description:"Settings file (yaml/json)"`
	Products string `short:"p" long:"products" description:"Product definitions directory (default: builtin)"`
	Watch    bool   `short:"w" long:"watch" description:"Reload product definitions on change"`
	Port     int    `long:"port" description:"Listen port (overrides settings and PORT)"`
}

// Execute runs the server until interrupted.
func (c *serveCmd) Execute(_ []string) error {
	log := newLogger()

	cfg, err := settings.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Products != "" {
		cfg.Products = c.Products
	}
	if c.Watch {
		cfg.Watch = true
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	defs, err := loadDefinitions(cfg.Products)
	if err != nil {
		return err
	}
	catalog, err := product.NewCatalog(defs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch && cfg.Products != "" {
		if err := catalog.Watch(ctx, cfg.Products, log); err != nil {
			return err
		}
	}

	st, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close store", "err", err)
		}
	}()

	var mailer notify.Mailer = notify.LogMailer{Log: log}
	if cfg.MailEnabled() {
		smtp, err := notify.NewSMTPMailer(cfg.SMTP())
		if err != nil {
			return err
		}
		mailer = smtp
	} else {
		log.Warn("smtp credentials not set, payment notifications are only logged")
	}
	if cfg.PayU.APIKey == "" || cfg.PayU.MerchantID == "" {
		log.Warn("payment credentials not set, signatures will fail")
	}

	hub := broadcast.NewHub(log)
	srv := server.New(server.Options{
		Catalog:     catalog,
		Sessions:    session.NewManager(catalog, st, hub, log),
		Hub:         hub,
		Credentials: cfg.Credentials(),
		Mailer:      mailer,
		NotifyTo:    cfg.NotifyTo(),
		Log:         log,
	})

	log.Info("configurator starting", "port", cfg.Port, "products", catalog.Names(), "store", cfg.Store.Driver)

	return srv.Run(ctx, cfg.Addr())
}

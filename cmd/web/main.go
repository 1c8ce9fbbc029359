package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/restaurante-cliente/internal/application/auth"
	"github.com/jhoicas/restaurante-cliente/internal/application/roles"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/backend"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/memory"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/restaurante-cliente/internal/infrastructure/redis"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/sealing"
	httpRouter "github.com/jhoicas/restaurante-cliente/internal/interfaces/http"
	"github.com/jhoicas/restaurante-cliente/pkg/config"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.UsuarioURL).
		Str("sesiones", cfg.Session.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newCredentialStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesiones")
	}
	defer closeStore()

	client := backend.NewClient(cfg.Backend.UsuarioURL, cfg.Backend.Timeout(), log)
	resolver := roles.NewResolver(client, log)

	opts := []auth.Option{auth.WithResolveTimeout(cfg.Backend.RoleTimeout())}
	if !cfg.Session.EmailFallback {
		opts = append(opts, auth.WithEmailFallback(nil))
	}
	sessions := auth.NewSessionService(client, resolver, store, log, opts...)

	loginLimiter := httpRouter.NewLoginRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.Burst)
	defer loginLimiter.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ProxyHeader:  cfg.HTTP.ProxyHeader,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "Restaurante Cliente",
			}))
		} else {
			log.Warn().Str("archivo", cfg.Docs.FilePath).Msg("swagger habilitado pero el archivo no existe")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:  cfg.App.Name,
		Sessions:     sessions,
		Profiles:     client,
		LoginLimiter: loginLimiter,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.App.Env == "production",
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newCredentialStore construye el almacén según SESSION_DRIVER y, si hay llave, lo envuelve en sealing.
func newCredentialStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.CredentialStore, func(), error) {
	var (
		store   repository.CredentialStore
		closeFn = func() {}
	)

	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		store = infraredis.NewCredentialStore(rdb, cfg.Redis.Prefix, cfg.Session.TTL())
		closeFn = func() { _ = rdb.Close() }

	case config.SessionDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		pg := postgres.NewCredentialStore(pool, cfg.Session.TTL())
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		go purgeExpired(ctx, pg, log)
		store = pg
		closeFn = pool.Close

	default:
		store = memory.NewCredentialStore(cfg.Session.TTL())
	}

	key, err := cfg.Session.Key()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if key != nil {
		sealed, err := sealing.New(store, key)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		log.Info().Msg("sesiones cifradas en reposo")
		store = sealed
	}
	return store, closeFn, nil
}

// purgeExpired limpia sesiones vencidas de PostgreSQL cada 15 minutos.
func purgeExpired(ctx context.Context, pg *postgres.CredentialStore, log *logger.Logger) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := pg.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purgar sesiones vencidas")
				continue
			}
			if n > 0 {
				log.Debug().Int64("eliminadas", n).Msg("sesiones vencidas purgadas")
			}
		}
	}
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/api/server"
	cr "github.com/Antonov75/gallery_service/internal/gallery/repository/commentrepo/postgres"
	ir "github.com/Antonov75/gallery_service/internal/gallery/repository/imagerepo/postgres"
	rr "github.com/Antonov75/gallery_service/internal/gallery/repository/ratingrepo/postgres"
	ur "github.com/Antonov75/gallery_service/internal/gallery/repository/userrepo/postgres"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/verifycache/redis"
	"github.com/Antonov75/gallery_service/internal/gallery/services/authservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/commentservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/imageservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/ratingservice"
	"github.com/Antonov75/gallery_service/internal/pkg/config"
	"github.com/Antonov75/gallery_service/internal/pkg/pgtools"
	"github.com/Antonov75/gallery_service/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type GalleryApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (GalleryApp, error) {
	lg, err := logger.New(logger.Config{
		Level:     cfg.Logger.Level,
		Output:    cfg.Logger.Output,
		ErrOutput: cfg.Logger.ErrOutput,
	})
	if err != nil {
		return GalleryApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	pool, err := pgtools.Connect(ctx, cfg.PostgresDB)
	if err != nil {
		return GalleryApp{}, fmt.Errorf("postgres connect error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		return GalleryApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	verifyCache, err := redis.New(ctx, cfg.RedisCache, cfg.Auth.VerifyTTL)
	if err != nil {
		return GalleryApp{}, fmt.Errorf("redis verify cache initializing error: %w", err)
	}

	userRepo := ur.New(pool)
	imageRepo := ir.New(pool)
	commentRepo := cr.New(pool)
	ratingRepo := rr.New(pool)

	authService := authservice.New(userRepo, verifyCache, logSender{lg: lg}, cfg.Auth)

	if err := authService.EnsureAdmin(ctx); err != nil {
		return GalleryApp{}, fmt.Errorf("ensure admin error: %w", err)
	}

	imageService := imageservice.New(imageRepo,
		imageservice.NewURLTransformer(cfg.Transform.UploadMarker), lg)
	commentService := commentservice.New(commentRepo)
	ratingService := ratingservice.New(ratingRepo, imageRepo)

	s := server.New(cfg.Server, authService, imageService, commentService,
		ratingService, pool, verifyCache, lg)

	return GalleryApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (ga *GalleryApp) Run(ctx context.Context) {
	ga.lg.Infof("STARTED SERVER ON %s", ga.cfg.Server.Addr)

	go func() {
		if err := ga.s.Start(ctx); err != nil {
			ga.lg.Errorf("server start error: %s", err.Error())
			ctx.Done()

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ga.Stop(ctxS); err != nil { //nolint:contextcheck
		ga.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ga *GalleryApp) Stop(ctx context.Context) error {
	if err := ga.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ga.lg.Info("Shutdowned successfully")

	return nil
}

// logSender writes the confirmation link to the log instead of sending
// mail. TODO: replace with an SMTP sender once the mail relay is
// provisioned.
type logSender struct {
	lg logger.Logger
}

func (ls logSender) SendVerification(_ context.Context, email, token string) error {
	ls.lg.Infof("verification for %s: /v1/auth/confirm/%s", email, token)

	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/authservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/imageservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/ratingservice"
	"github.com/Antonov75/gallery_service/internal/pkg/config"
	"github.com/Antonov75/gallery_service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	serv           *http.Server
	authService    AuthService
	imageService   ImageService
	commentService CommentService
	ratingService  RatingService
	dbProbe        Pinger
	cacheProbe     Pinger
	lg             logger.Logger
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	ConfirmEmail(context.Context, string) error
	Login(ctx context.Context, username, password string) (string, error)
	Identify(ctx context.Context, token string) (models.User, error)
}

type ImageService interface {
	CreateImage(context.Context, accessservice.Grant, imageservice.CreateImageRequest) (models.Image, error)
	GetImage(context.Context, int64) (models.Image, error)
	UpdateImage(ctx context.Context, grant accessservice.Grant, id int64, title string) (models.Image, error)
	DeleteImage(ctx context.Context, grant accessservice.Grant, id int64) error
	TransformImage(ctx context.Context, grant accessservice.Grant,
		id int64, req imageservice.TransformRequest) (models.Image, error)
	AddTags(ctx context.Context, grant accessservice.Grant, imageID int64, names []string) (models.Image, error)
	RemoveTags(ctx context.Context, grant accessservice.Grant, imageID int64, names []string) (models.Image, error)
	SearchImages(ctx context.Context, names []string) ([]models.Image, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, grant accessservice.Grant,
		imageID int64, text string) (models.Comment, error)
	GetComment(context.Context, int64) (models.Comment, error)
	UpdateComment(ctx context.Context, grant accessservice.Grant, id int64, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, grant accessservice.Grant, id int64) error
	ListByImage(context.Context, int64) ([]models.Comment, error)
}

type RatingService interface {
	SetRating(context.Context, models.User, ratingservice.SetRatingRequest) (models.Rating, error)
	GetRating(context.Context, int64) (models.Rating, error)
	UpdateRating(ctx context.Context, user models.User, id int64, value int) (models.Rating, error)
	DeleteRating(ctx context.Context, user models.User, id int64) error
}

// Pinger is a liveness probe over a backing resource.
type Pinger interface {
	Ping(context.Context) error
}

func New(cfg config.Server, auth AuthService, images ImageService, comments CommentService,
	ratings RatingService, dbProbe, cacheProbe Pinger, lg logger.Logger,
) *Server {
	s := Server{ //nolint:exhaustruct
		authService:    auth,
		imageService:   images,
		commentService: comments,
		ratingService:  ratings,
		dbProbe:        dbProbe,
		cacheProbe:     cacheProbe,
		lg:             lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(loggingMiddleware(s.lg))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Get("/auth/confirm/{token}", s.confirmEmail)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/images", func(r chi.Router) {
				r.Post("/", s.createImage)
				r.Get("/search", s.searchImages)
				r.Get("/{id}", s.getImage)
				r.Patch("/{id}", s.updateImage)
				r.Delete("/{id}", s.deleteImage)
				r.Post("/{id}/transform", s.transformImage)
				r.Post("/{id}/tags", s.addTags)
				r.Delete("/{id}/tags", s.removeTags)
				r.Get("/{id}/comments", s.listComments)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Post("/", s.createComment)
				r.Get("/{id}", s.getComment)
				r.Patch("/{id}", s.updateComment)
				r.Delete("/{id}", s.deleteComment)
			})

			r.Route("/ratings", func(r chi.Router) {
				r.Post("/", s.setRating)
				r.Get("/{id}", s.getRating)
				r.Patch("/{id}", s.updateRating)
				r.Delete("/{id}", s.deleteRating)
			})
		})
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		DB:    "ok",
		Cache: "ok",
	}

	code := http.StatusOK

	if err := s.dbProbe.Ping(r.Context()); err != nil {
		resp.DB = err.Error()
		code = http.StatusServiceUnavailable
	}

	if err := s.cacheProbe.Ping(r.Context()); err != nil {
		resp.Cache = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, resp)
}

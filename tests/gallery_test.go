package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/api/server"
	"github.com/Antonov75/gallery_service/internal/gallery/app"
	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/pkg/config"

	"github.com/stretchr/testify/suite"
)

type GallerySuite struct {
	suite.Suite
	app     app.GalleryApp
	cancel  context.CancelFunc
	baseURL string
	client  *http.Client
}

var (
	adminUsername = "admin"
	adminPassword = "1234"
)

func (gs *GallerySuite) SetupSuite() {
	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "up", "-d")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		gs.T().Fatalf("cannot start docker compose error: %v", err)
	}

	cfg, err := config.New("config_test.yaml")
	if err != nil {
		gs.T().Fatalf("cannot get config error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		gs.T().Fatalf("cannot get app error: %v", err)
	}

	gs.app = a
	gs.cancel = cancel
	gs.baseURL = "http://" + cfg.Server.Addr + "/v1"
	gs.client = &http.Client{} //nolint:exhaustruct

	go a.Run(ctx)
	time.Sleep(time.Second * 2) // Время для запуска сервера и баз данных.
}

func (gs *GallerySuite) TearDownSuite() {
	gs.cancel()

	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "down", "-v")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		gs.T().Fatalf("cannot down docker containers error: %v", err)
	}
}

func (gs *GallerySuite) do(method, path, token string, body interface{}) *http.Response {
	gs.T().Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	var rd io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		gs.Require().NoError(err)

		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, gs.baseURL+path, rd)
	gs.Require().NoError(err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := gs.client.Do(req)
	gs.Require().NoError(err)

	return resp
}

func (gs *GallerySuite) decode(resp *http.Response, v interface{}) {
	gs.T().Helper()

	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	gs.Require().NoError(dec.Decode(v))
}

func (gs *GallerySuite) login(username, password string) string {
	gs.T().Helper()

	resp := gs.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var respToken server.AuthUserResponse
	gs.decode(resp, &respToken)
	gs.Require().NotEmpty(respToken.Token)

	return respToken.Token
}

func (gs *GallerySuite) TestImageLifecycle() {
	// Админ проходит аутентификацию
	adminToken := gs.login(adminUsername, adminPassword)

	// Админ создает изображение
	resp := gs.do(http.MethodPost, "/images", adminToken, map[string]string{
		"title": "sunset",
		"url":   "https://res.example.com/demo/image/upload/v1/sunset.jpg",
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var im models.Image
	gs.decode(resp, &im)
	gs.Require().Equal("sunset", im.Title)
	gs.Require().NotZero(im.ID)

	// Админ добавляет теги, дубликаты в пакете схлопываются
	resp = gs.do(http.MethodPost, "/images/"+itoa(im.ID)+"/tags", adminToken, map[string][]string{
		"names": {"nature", "evening", "nature"},
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var tagged models.Image
	gs.decode(resp, &tagged)
	gs.Require().Len(tagged.Tags, 2)

	// Поиск по тегу находит изображение
	resp = gs.do(http.MethodGet, "/images/search?name=nature", adminToken, nil)
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var found []models.Image
	gs.decode(resp, &found)
	gs.Require().Len(found, 1)
	gs.Require().Equal(im.ID, found[0].ID)

	// Админ создает отредактированную версию
	resp = gs.do(http.MethodPost, "/images/"+itoa(im.ID)+"/transform", adminToken, map[string]interface{}{
		"width": 200,
		"crop":  "fill",
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var transformed models.Image
	gs.decode(resp, &transformed)
	gs.Require().Equal("https://res.example.com/demo/image/upload/w_200,c_fill/v1/sunset.jpg",
		transformed.EditedURL)

	// Админ снимает тег
	resp = gs.do(http.MethodDelete, "/images/"+itoa(im.ID)+"/tags", adminToken, map[string][]string{
		"names": {"evening"},
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var untagged models.Image
	gs.decode(resp, &untagged)
	gs.Require().Len(untagged.Tags, 1)
	gs.Require().Equal("nature", untagged.Tags[0].Name)

	// Админ меняет заголовок
	resp = gs.do(http.MethodPatch, "/images/"+itoa(im.ID), adminToken, map[string]string{
		"title": "golden hour",
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var renamed models.Image
	gs.decode(resp, &renamed)
	gs.Require().Equal("golden hour", renamed.Title)
}

func (gs *GallerySuite) TestRatingsAndComments() {
	adminToken := gs.login(adminUsername, adminPassword)

	resp := gs.do(http.MethodPost, "/images", adminToken, map[string]string{
		"title": "mountain",
		"url":   "https://res.example.com/demo/image/upload/v1/mountain.jpg",
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var im models.Image
	gs.decode(resp, &im)

	// Админ выставляет оценку
	resp = gs.do(http.MethodPost, "/ratings", adminToken, map[string]interface{}{
		"image_id": im.ID,
		"value":    4,
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var rt models.Rating
	gs.decode(resp, &rt)
	gs.Require().Equal(4, rt.Value)

	// Повторная оценка заменяет предыдущую, средняя пересчитывается
	resp = gs.do(http.MethodPost, "/ratings", adminToken, map[string]interface{}{
		"image_id": im.ID,
		"value":    2,
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var replaced models.Rating
	gs.decode(resp, &replaced)
	gs.Require().Equal(rt.ID, replaced.ID)
	gs.Require().Equal(2, replaced.Value)

	resp = gs.do(http.MethodGet, "/images/"+itoa(im.ID), adminToken, nil)
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var rated models.Image
	gs.decode(resp, &rated)
	gs.Require().InDelta(2.0, rated.Rating, 0.001)

	// Оценка вне диапазона отклоняется
	resp = gs.do(http.MethodPost, "/ratings", adminToken, map[string]interface{}{
		"image_id": im.ID,
		"value":    6,
	})
	gs.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// После удаления оценки средняя возвращается к нулю
	resp = gs.do(http.MethodDelete, "/ratings/"+itoa(replaced.ID), adminToken, nil)
	gs.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = gs.do(http.MethodGet, "/images/"+itoa(im.ID), adminToken, nil)
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	gs.decode(resp, &rated)
	gs.Require().InDelta(0.0, rated.Rating, 0.001)

	// Комментарии: создание, изменение, удаление
	resp = gs.do(http.MethodPost, "/comments", adminToken, map[string]interface{}{
		"image_id": im.ID,
		"text":     "great view",
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var c models.Comment
	gs.decode(resp, &c)
	gs.Require().Equal("great view", c.Text)

	resp = gs.do(http.MethodPatch, "/comments/"+itoa(c.ID), adminToken, map[string]string{
		"text": "stunning view",
	})
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var edited models.Comment
	gs.decode(resp, &edited)
	gs.Require().Equal("stunning view", edited.Text)

	resp = gs.do(http.MethodGet, "/images/"+itoa(im.ID)+"/comments", adminToken, nil)
	gs.Require().Equal(http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	gs.decode(resp, &comments)
	gs.Require().Len(comments, 1)

	resp = gs.do(http.MethodDelete, "/comments/"+itoa(c.ID), adminToken, nil)
	gs.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func (gs *GallerySuite) TestAccessControl() {
	adminToken := gs.login(adminUsername, adminPassword)

	// Регистрация нового пользователя
	resp := gs.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "casual_user",
		"email":    "casual@example.com",
		"password": "qwerty",
	})
	gs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var reg server.RegisterResponse
	gs.decode(resp, &reg)
	gs.Require().NotEmpty(reg.UserID)

	userToken := gs.login("casual_user", "qwerty")
	gs.Require().NotEqual(adminToken, userToken)

	// Неподтвержденный пользователь не проходит проверку доступа
	resp = gs.do(http.MethodPost, "/images", userToken, map[string]string{
		"title": "mine",
		"url":   "https://res.example.com/demo/image/upload/v1/mine.jpg",
	})
	gs.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Неизвестный токен подтверждения отклоняется
	resp = gs.do(http.MethodGet, "/auth/confirm/not-a-real-token", "", nil)
	gs.Require().Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Без токена защищенные маршруты недоступны
	resp = gs.do(http.MethodGet, "/images/1", "", nil)
	gs.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Повторная регистрация с тем же именем отклоняется
	resp = gs.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "casual_user",
		"email":    "casual2@example.com",
		"password": "qwerty",
	})
	gs.Require().Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestGalleryServiceSuite(t *testing.T) {
	suite.Run(t, new(GallerySuite))
}

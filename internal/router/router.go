package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	logger *slog.Logger,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(SessionLoader(authService))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Session
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)

	// Tasks
	e.GET("/", taskHandler.Index)
	e.GET("/filter/:status", taskHandler.Filter)
	e.POST("/add", taskHandler.Add)
	e.GET("/edit/:id", taskHandler.Edit)
	e.POST("/update/:id", taskHandler.Update)
	e.POST("/update_status/:id", taskHandler.UpdateStatus)
	e.POST("/delete/:id", taskHandler.Delete)

	// Users (admin)
	e.GET("/users", userHandler.ListUsers)
	e.POST("/users/add", userHandler.AddUser)
	e.GET("/users/edit/:id", userHandler.GetUser)
	e.POST("/users/edit/:id", userHandler.UpdateUser)
	e.GET("/users/delete/:id", userHandler.DeleteUser)
	e.POST("/users/delete/:id", userHandler.DeleteUser)
}

// SessionLoader resolves the session cookie into an *auth.Identity on the
// request context. Missing, invalid or revoked sessions leave the request
// anonymous; the policy layer decides what anonymous callers may do.
func SessionLoader(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  auth.ContextKey,
		TokenLookup: "cookie:" + auth.SessionCookie,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Resolve(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "TalentScope-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"TalentScope-backend/internal/auth"
	"TalentScope-backend/internal/controller/candidate"
	"TalentScope-backend/internal/controller/file"
	"TalentScope-backend/internal/controller/position"
	"TalentScope-backend/internal/controller/stats"
	"TalentScope-backend/internal/controller/upload"
	"TalentScope-backend/internal/controller/user"
	viewstatectl "TalentScope-backend/internal/controller/viewstate"
	"TalentScope-backend/internal/middleware"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	resetAuth := auth.NewResetPasswordHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)

	candidates := candidate.NewCandidateController(s.DB)
	uploads := upload.NewUploadController(s.DB, s.Storage)
	positions := position.NewPositionController(s.DB)
	statistics := stats.NewStatsController(s.DB)
	users := user.NewUserController(s.DB)
	files := file.NewFileController(s.DB, s.Storage)
	viewStates := viewstatectl.NewViewStateController(s.ViewStore)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("google", gAuth.GoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("register", lAuth.RegisterHandler)
			authRoute.POST("reset-password", resetAuth.ResetPassword)
		}

		// Approved-account routes
		needAuth := v1.Group("")
		{
			needAuth.Use(
				middleware.RequireAuth(s.DB),
				middleware.JwtBlacklistCheck(s.Blacklist),
				middleware.RequireApproved(),
			)

			needAuth.POST("auth/logout", logout.LogoutHandler)

			candidateRoute := needAuth.Group("/candidates")
			{
				candidateRoute.GET("", candidates.List)
				candidateRoute.GET(":id", candidates.Get)
				candidateRoute.PATCH(":id", candidates.Edit)
			}

			uploadRoute := needAuth.Group("/uploads")
			{
				uploadRoute.POST("", middleware.SizeLimit(50<<20), uploads.Upload)
				uploadRoute.GET("", uploads.List)
				uploadRoute.POST(":id/retry", uploads.Retry)
				uploadRoute.POST(":id/rerun-parse", uploads.RerunParse)
				uploadRoute.GET(":id/wait", uploads.Wait)
			}

			positionRoute := needAuth.Group("/positions")
			{
				positionRoute.GET("", positions.List)
				positionRoute.GET(":id/match", positions.Match)
			}

			needAuth.GET("stats/me", statistics.Mine)

			fileRoute := needAuth.Group("/file")
			{
				fileRoute.GET(":id", files.Download)
				fileRoute.GET("preview/:id", files.PreviewURL)
			}

			viewStateRoute := needAuth.Group("/viewstate")
			{
				viewStateRoute.PUT(":screen", viewStates.Save)
				viewStateRoute.GET(":screen", viewStates.Load)
				viewStateRoute.DELETE(":screen", viewStates.Clear)
			}

			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.RequireAdmin())
				needAdmin.GET("stats", statistics.Overview)

				needAdmin.GET("users", users.GetUsers)
				needAdmin.PATCH("users/:user_id/approval", users.SetApproval)
				needAdmin.PATCH("users/:user_id/role", users.SetRole)

				needAdmin.POST("positions", positions.Create)
				needAdmin.PUT("positions/:id", positions.Update)
				needAdmin.DELETE("positions/:id", positions.Delete)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}

package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"TalentSift-backend/internal/auth"
	"TalentSift-backend/internal/controller/jd"
	"TalentSift-backend/internal/controller/profile"
	"TalentSift-backend/internal/controller/resume"
	"TalentSift-backend/internal/middleware"
	"TalentSift-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	limited := middleware.RateLimiterMiddleware(uint(s.Cfg.RateLimitRequestsPerSecond))

	lAuth := auth.NewLocalAuthHandler(s.DB)
	jdController := jd.NewController(s.DB, s.Cfg, s.Invoker, s.Log)
	resumeController := resume.NewController(s.DB, s.Cfg, s.Runner, s.Log)
	profileController := profile.NewController(s.DB, s.Log)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/", s.HelloHandler)
	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(limited)
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))

			jdRoute := needAuth.Group("/jd")
			{
				jdRoute.POST("upload", limited, middleware.SizeLimit(10<<20), jdController.Upload)
				jdRoute.POST("builder", limited, jdController.Builder)
				jdRoute.GET(":jd_id", jdController.Get)
				jdRoute.GET(":jd_id/download", jdController.Download)
				jdRoute.POST(":jd_id/analyze", limited, jdController.Analyze)
				jdRoute.GET(":jd_id/analysis", jdController.Analysis)
				jdRoute.GET(":jd_id/feedback", jdController.Feedback)
			}

			profileRoute := needAuth.Group("/profile")
			{
				profileRoute.POST("", limited, profileController.Create)
				profileRoute.GET("", profileController.List)
				profileRoute.POST("change-password", limited, profileController.ChangePassword)
				profileRoute.GET(":user_id", profileController.Get)
				profileRoute.PUT(":user_id", limited, profileController.Update)
				profileRoute.DELETE(":user_id", limited, profileController.Delete)
			}

			resumeRoute := needAuth.Group("/resumes")
			{
				resumeRoute.POST("upload", limited, middleware.SizeLimit(50<<20), resumeController.Upload)
				resumeRoute.GET("", resumeController.List)
				resumeRoute.POST("process-once", limited, resumeController.ProcessOnce)
				resumeRoute.GET(":id/download", resumeController.Download)
				resumeRoute.DELETE(":id", limited, resumeController.Delete)
				resumeRoute.PATCH(":id/status", limited, resumeController.UpdateStatus)
				resumeRoute.POST(":id/move", limited, resumeController.Move)
				resumeRoute.GET(":id/analysis", resumeController.Analysis)
				resumeRoute.POST(":id/feedback", limited, resumeController.PostFeedback)
				resumeRoute.GET(":id/feedback", resumeController.GetFeedback)
			}
		}
	}

	return r
}

// HelloHandler handle request by returning the service name
func (s *MyServer) HelloHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "TalentSift backend"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}

package bootstrap

import (
	"database/sql"

	httpapi "github.com/atelierhq/agency-backend/internal/api/http"
	"github.com/atelierhq/agency-backend/internal/api/http/middleware"
	"github.com/atelierhq/agency-backend/internal/calendar"
	"github.com/atelierhq/agency-backend/internal/chat"
	"github.com/atelierhq/agency-backend/internal/clients"
	"github.com/atelierhq/agency-backend/internal/files"
	"github.com/atelierhq/agency-backend/internal/invoices"
	"github.com/atelierhq/agency-backend/internal/members"
	"github.com/atelierhq/agency-backend/internal/projects"
	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/atelierhq/agency-backend/internal/reports"
	"github.com/atelierhq/agency-backend/internal/tasks"
	"github.com/atelierhq/agency-backend/internal/templates"
	"github.com/atelierhq/agency-backend/internal/timetracking"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *pgxpool.Pool
	ReportDB       *sql.DB
	Redis          *redis.Client
	FileStore      *files.Store
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: false,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	broadcast := realtime.NewBroadcaster(dep.Redis)

	api := r.Group("/api")
	api.Use(middleware.RequestID())
	api.Use(middleware.RateLimit(50, 100))

	realtime.NewStreamHandler(dep.Redis).Register(api)

	clients.Register(api.Group("/clients"), clients.NewRepo(dep.DB), broadcast)

	projectsGroup := api.Group("/projects")
	projects.Register(projectsGroup, projects.NewRepo(dep.DB), broadcast)

	tasksGroup := api.Group("/tasks")
	tasks.Register(tasksGroup, tasks.NewRepo(dep.DB), broadcast)

	chat.Register(projectsGroup, tasksGroup, chat.NewRepo(dep.DB), broadcast)

	members.Register(api.Group("/team-members"), members.NewRepo(dep.DB), broadcast)
	timetracking.Register(api.Group("/time-entries"), timetracking.NewRepo(dep.DB), broadcast)
	templates.Register(api.Group("/project-templates"), templates.NewRepo(dep.DB), broadcast)
	invoices.Register(api.Group("/invoices"), invoices.NewRepo(dep.DB), broadcast)
	calendar.Register(api.Group("/calendar-events"), calendar.NewRepo(dep.DB), broadcast)
	files.Register(api.Group("/files"), dep.FileStore, broadcast)
	reports.Register(api.Group("/reports"), reports.NewRepo(dep.ReportDB))

	return r
}

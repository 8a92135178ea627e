package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/schoolqr/attendance-api/internal/api/handler/v1"
	"github.com/schoolqr/attendance-api/internal/api/middleware"
	"github.com/schoolqr/attendance-api/internal/config"
	"github.com/schoolqr/attendance-api/internal/repository"
	"github.com/schoolqr/attendance-api/internal/repository/dao"
	"github.com/schoolqr/attendance-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	schoolRepo := repository.NewSchoolRepository(dao.NewSchoolDAO(db))
	studentRepo := repository.NewStudentRepository(dao.NewStudentDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))

	accessSvc := service.NewAccessService(userRepo)
	eventSvc := service.NewEventService(eventRepo, accessSvc)

	authHandler := v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo))
	userHandler := v1.NewUserHandler(service.NewUserService(userRepo, studentRepo, accessSvc))
	schoolHandler := v1.NewSchoolHandler(service.NewSchoolService(schoolRepo, accessSvc))
	studentHandler := v1.NewStudentHandler(service.NewStudentService(studentRepo, accessSvc))
	eventHandler := v1.NewEventHandler(eventSvc, accessSvc)
	attendanceHandler := v1.NewAttendanceHandler(
		service.NewAttendanceService(attendanceRepo, studentRepo, eventSvc, accessSvc),
	)

	s.MountHandlers(authHandler, userHandler, schoolHandler, studentHandler, eventHandler, attendanceHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	schoolHandler *v1.SchoolHandler,
	studentHandler *v1.StudentHandler,
	eventHandler *v1.EventHandler,
	attendanceHandler *v1.AttendanceHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		protected.GET("/users/:userID", userHandler.HandleGetUser)
		protected.POST("/users/:userID/children", userHandler.HandleLinkChild)

		protected.POST("/schools", schoolHandler.HandleCreateSchool)
		protected.GET("/schools", schoolHandler.HandleListSchools)
		protected.GET("/schools/:schoolID", schoolHandler.HandleGetSchool)
		protected.PUT("/schools/:schoolID", schoolHandler.HandleUpdateSchool)
		protected.DELETE("/schools/:schoolID", schoolHandler.HandleDeleteSchool)

		protected.POST("/students", studentHandler.HandleCreateStudent)
		protected.GET("/students", studentHandler.HandleListStudents)
		protected.GET("/students/:studentID", studentHandler.HandleGetStudent)
		protected.PUT("/students/:studentID", studentHandler.HandleUpdateStudent)
		protected.DELETE("/students/:studentID", studentHandler.HandleDeleteStudent)

		// Static and param segments must not share a level in gin's tree,
		// hence the dedicated prefixes for QR lookup and the active event.
		protected.GET("/qrcodes/:qrCode", studentHandler.HandleGetStudentByQRCode)
		protected.GET("/active-event", eventHandler.HandleGetActiveEvent)

		protected.POST("/events", eventHandler.HandleCreateEvent)
		protected.GET("/events", eventHandler.HandleListEvents)
		protected.GET("/events/:eventID", eventHandler.HandleGetEvent)
		protected.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		protected.PUT("/events/:eventID/active", eventHandler.HandleSetEventActive)
		protected.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)

		protected.POST("/attendance/scan", attendanceHandler.HandleScan)
		protected.GET("/attendance", attendanceHandler.HandleListByEvent)
		protected.GET("/attendance/students/:studentID", attendanceHandler.HandleListByStudent)
		protected.DELETE("/attendance/records/:recordID", attendanceHandler.HandleDeleteRecord)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}

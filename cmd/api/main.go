package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appbooking "github.com/xiebiao/tutorup/internal/application/booking"
	appsession "github.com/xiebiao/tutorup/internal/application/session"
	appslot "github.com/xiebiao/tutorup/internal/application/slot"
	appstudent "github.com/xiebiao/tutorup/internal/application/student"
	apptutor "github.com/xiebiao/tutorup/internal/application/tutor"
	"github.com/xiebiao/tutorup/internal/domain/student"
	"github.com/xiebiao/tutorup/internal/domain/tutor"
	"github.com/xiebiao/tutorup/internal/infrastructure/config"
	"github.com/xiebiao/tutorup/internal/infrastructure/mq"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/tutorup/internal/interface/http/handler"
	"github.com/xiebiao/tutorup/internal/interface/http/middleware"
	"github.com/xiebiao/tutorup/pkg/jwt"
	"github.com/xiebiao/tutorup/pkg/metrics"
	"github.com/xiebiao/tutorup/pkg/response"
	"github.com/xiebiao/tutorup/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本，wire gen后可切换到InitializeApp）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("[WARN] 关闭链路追踪失败: %v", err)
			}
		}()
		fmt.Printf("✓ 链路追踪已开启: %s\n", cfg.Tracing.Endpoint)
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化事件发布器
	// MQ未启用时降级为空实现，预约主流程不依赖Broker
	var publisher appbooking.EventPublisher
	if cfg.MQ.Enabled {
		eventPublisher, err := mq.NewEventPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer eventPublisher.Close()
		publisher = eventPublisher
		fmt.Printf("✓ 事件发布已开启: exchange=%s\n", cfg.MQ.Exchange)
	} else {
		publisher = mq.NewNoopPublisher()
	}

	// 7. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	studentRepo := mysql.NewStudentRepository(db)
	tutorRepo := mysql.NewTutorRepository(db)
	courseRepo := mysql.NewCourseRepository(db)
	slotRepo := mysql.NewSlotRepository(db)
	bookingRepo := mysql.NewBookingRepository(db)
	sessionRepo := mysql.NewSessionRepository(db)
	txManager := mysql.NewTxManager(db)
	studentLock := mysql.NewStudentLock(db, cfg.Lock.StudentWait)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	studentService := student.NewService(studentRepo)
	tutorService := tutor.NewService(tutorRepo)

	// 应用层
	studentRegisterUseCase := appstudent.NewRegisterUseCase(studentService)
	studentLoginUseCase := appstudent.NewLoginUseCase(studentService, jwtManager, sessionStore)
	studentLogoutUseCase := appstudent.NewLogoutUseCase(sessionStore)
	profileUseCase := appstudent.NewGetProfileUseCase(studentRepo)
	changePasswordUseCase := appstudent.NewChangePasswordUseCase(studentService)
	deleteAccountUseCase := appstudent.NewDeleteAccountUseCase(studentRepo, txManager)
	tutorRegisterUseCase := apptutor.NewRegisterUseCase(tutorService)
	tutorLoginUseCase := apptutor.NewLoginUseCase(tutorService, jwtManager, sessionStore)
	createSlotUseCase := appslot.NewCreateSlotUseCase(slotRepo, courseRepo)
	listSlotsUseCase := appslot.NewListSlotsUseCase(slotRepo)
	createBookingUseCase := appbooking.NewCreateBookingUseCase(bookingRepo, slotRepo, studentLock, txManager, publisher)
	cancelBookingUseCase := appbooking.NewCancelBookingUseCase(bookingRepo, slotRepo, studentLock, txManager, publisher)
	listSessionsUseCase := appbooking.NewListSessionsUseCase(bookingRepo)
	markAttendanceUseCase := appsession.NewMarkAttendanceUseCase(sessionRepo, bookingRepo, slotRepo)
	submitReviewUseCase := appsession.NewSubmitReviewUseCase(sessionRepo, bookingRepo, slotRepo, tutorRepo, txManager)

	// 接口层
	authHandler := handler.NewAuthHandler(studentRegisterUseCase, studentLoginUseCase, tutorRegisterUseCase, tutorLoginUseCase)
	slotHandler := handler.NewSlotHandler(createSlotUseCase, listSlotsUseCase)
	bookingHandler := handler.NewBookingHandler(createBookingUseCase, cancelBookingUseCase, listSessionsUseCase)
	sessionHandler := handler.NewSessionHandler(markAttendanceUseCase, submitReviewUseCase)
	studentHandler := handler.NewStudentHandler(profileUseCase, changePasswordUseCase, deleteAccountUseCase, studentLogoutUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName))

	// 9. 注册路由
	registerRoutes(r, authHandler, slotHandler, bookingHandler, sessionHandler, studentHandler, authMiddleware)

	// 10. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("   学生注册: POST http://localhost%s/api/v1/auth/students/register\n", addr)
	fmt.Printf("   导师注册: POST http://localhost%s/api/v1/auth/tutors/register\n", addr)
	fmt.Printf("   今日时段: GET  http://localhost%s/api/v1/slots/today\n", addr)
	fmt.Printf("   预约时段: POST http://localhost%s/api/v1/bookings (需要学生登录)\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	slotHandler *handler.SlotHandler,
	bookingHandler *handler.BookingHandler,
	sessionHandler *handler.SessionHandler,
	studentHandler *handler.StudentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 认证模块（公开接口，不需要登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/students/register", authHandler.RegisterStudent)
			auth.POST("/students/login", authHandler.LoginStudent)
			auth.POST("/students/logout", authMiddleware.RequireStudent(), studentHandler.Logout)
			auth.POST("/tutors/register", authHandler.RegisterTutor)
			auth.POST("/tutors/login", authHandler.LoginTutor)
		}

		// 时段模块
		slots := v1.Group("/slots")
		{
			// 浏览可预约时段（公开接口）
			slots.GET("/today", slotHandler.ListToday)
			slots.GET("/tomorrow", slotHandler.ListTomorrow)
			slots.GET("/date/:date", slotHandler.ListByDate)

			// 发布时段（仅导师）
			slots.POST("", authMiddleware.RequireTutor(), slotHandler.Create)
		}

		// 预约模块（仅学生）
		bookings := v1.Group("/bookings")
		bookings.Use(authMiddleware.RequireStudent())
		{
			bookings.POST("", bookingHandler.Create)
			bookings.DELETE("/:bookingId", bookingHandler.Cancel)
		}

		// 学生账号与课程表
		students := v1.Group("/students/me")
		students.Use(authMiddleware.RequireStudent())
		{
			students.GET("", studentHandler.GetProfile)
			students.PUT("/password", studentHandler.ChangePassword)
			students.DELETE("", studentHandler.DeleteAccount)
			students.GET("/sessions/upcoming", bookingHandler.StudentUpcoming)
			students.GET("/sessions/past", bookingHandler.StudentPast)
		}

		// 导师课程表与出席
		tutors := v1.Group("/tutors")
		tutors.Use(authMiddleware.RequireTutor())
		{
			tutors.GET("/me/sessions/upcoming", bookingHandler.TutorUpcoming)
			tutors.GET("/me/sessions/past", bookingHandler.TutorPast)
			tutors.POST("/attendance", sessionHandler.TutorMarkAttendance)
		}

		// 出席与评价（仅学生）
		v1.POST("/attendance/:bookingId", authMiddleware.RequireStudent(), sessionHandler.MarkAttendance)
		v1.POST("/reviews/:bookingId", authMiddleware.RequireStudent(), sessionHandler.SubmitReview)
	}
}

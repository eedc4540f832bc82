//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewStudentRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

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
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================
// 教学说明：
// ProviderSet 将相关的 Provider 分组，便于管理和复用
// 例如：基础设施层的所有Provider放在一起

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
// 包含：所有Repository的构造函数
var repositorySet = wire.NewSet(
	mysql.NewStudentRepository, // 学生仓储
	mysql.NewTutorRepository,   // 导师仓储
	mysql.NewCourseRepository,  // 课程仓储
	mysql.NewSlotRepository,    // 时段仓储
	mysql.NewBookingRepository, // 预约仓储
	mysql.NewSessionRepository, // 出席与评价仓储
	mysql.NewTxManager,         // 事务管理器
	provideStudentLock,         // 学生级互斥锁（需要从config提取等待时间）
)

// domainSet 领域层依赖
// 包含：所有领域服务的构造函数
var domainSet = wire.NewSet(
	student.NewService, // 学生领域服务
	tutor.NewService,   // 导师领域服务
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appstudent.NewRegisterUseCase,       // 学生注册用例
	appstudent.NewLoginUseCase,          // 学生登录用例
	appstudent.NewLogoutUseCase,         // 学生登出用例
	appstudent.NewGetProfileUseCase,     // 学生资料用例
	appstudent.NewChangePasswordUseCase, // 修改密码用例
	appstudent.NewDeleteAccountUseCase,  // 注销账号用例
	apptutor.NewRegisterUseCase,         // 导师注册用例
	apptutor.NewLoginUseCase,            // 导师登录用例
	appslot.NewCreateSlotUseCase,        // 发布时段用例
	appslot.NewListSlotsUseCase,         // 浏览时段用例
	appbooking.NewCreateBookingUseCase,  // 创建预约用例
	appbooking.NewCancelBookingUseCase,  // 取消预约用例
	appbooking.NewListSessionsUseCase,   // 课程表用例
	appsession.NewMarkAttendanceUseCase, // 标记出席用例
	appsession.NewSubmitReviewUseCase,   // 提交评价用例
	provideEventPublisher,               // 事件发布器（MQ关闭时为空实现）
)

// middlewareSet 中间件依赖
// 包含：JWT管理器、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
// 包含：所有Handler的构造函数
var handlerSet = wire.NewSet(
	handler.NewAuthHandler,    // 认证处理器
	handler.NewSlotHandler,    // 时段处理器
	handler.NewBookingHandler, // 预约处理器
	handler.NewSessionHandler, // 出席与评价处理器
	handler.NewStudentHandler, // 学生账号处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideJWTManager 从配置创建JWT管理器
// 教学要点：config.Config 包含多个字段，但jwt.NewManager只需要JWT相关的配置
// Wire无法自动知道如何从Config提取参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
// 教学要点：redis.NewSessionStore需要*goredis.Client参数
// Wire会自动注入redis.NewClient()的返回值
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideStudentLock 从配置创建学生级互斥锁
// GET_LOCK等待上限来自config，不能让Wire直接调用NewStudentLock
func provideStudentLock(db *gorm.DB, cfg *config.Config) *mysql.StudentLock {
	return mysql.NewStudentLock(db, cfg.Lock.StudentWait)
}

// provideEventPublisher 创建事件发布器
// 教学要点：Provider可以返回接口类型
// MQ未启用时返回空实现，预约主流程不依赖Broker
func provideEventPublisher(cfg *config.Config) (appbooking.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NewNoopPublisher(), nil
	}
	return mq.NewEventPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideGinEngine 创建并配置Gin引擎
// 教学要点：
// 1. Gin引擎需要注册所有路由
// 2. 路由注册需要所有的Handler和Middleware
// 3. Wire会自动注入这些依赖
// 4. 这里直接在函数内注册路由，避免与main.go中的registerRoutes函数冲突
func provideGinEngine(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	slotHandler *handler.SlotHandler,
	bookingHandler *handler.BookingHandler,
	sessionHandler *handler.SessionHandler,
	studentHandler *handler.StudentHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName))

	// 注册路由
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	// 教学说明：
	// - ginSwagger.WrapHandler: Swagger UI的HTTP处理器
	// - swaggerFiles.Handler: 提供swagger.json等静态文件
	// - 访问 http://localhost:8080/swagger/index.html 查看API文档
	// - 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 认证模块（公开接口）
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
			slots.GET("/today", slotHandler.ListToday)
			slots.GET("/tomorrow", slotHandler.ListTomorrow)
			slots.GET("/date/:date", slotHandler.ListByDate)
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

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// 教学说明：
// InitializeApp是Wire的入口函数（Injector）
//
// wire.Build() 告诉Wire需要哪些Provider来构建*gin.Engine
// Wire会自动分析依赖关系：
//
// 依赖链示例：
// *gin.Engine 需要 → *handler.BookingHandler
// *handler.BookingHandler 需要 → *appbooking.CreateBookingUseCase
// *appbooking.CreateBookingUseCase 需要 → booking.Repository
// booking.Repository 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config
//
// Wire会按正确的顺序调用所有构造函数

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
// 错误：如果任何依赖创建失败
//
// 教学说明：
// Wire Injector函数的返回值有限制：
// - 第一个返回值：要构造的目标类型（*gin.Engine）
// - 第二个返回值（可选）：只能是error或cleanup函数
// - 不能返回多个业务对象，如果需要Config可以在provideGinEngine中处理
func InitializeApp() (*gin.Engine, error) {
	// wire.Build 的参数是所有的 Provider
	// Wire会在编译期分析依赖关系，生成初始化代码
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值类型必须与wire.Build的最终产出一致
	// Wire会在wire_gen.go中生成实际的初始化代码
	// 这里的返回值是占位符，实际运行时会被wire_gen.go替代
	return nil, nil
}

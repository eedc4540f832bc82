package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/tutorup/pkg/jwt"
	"github.com/xiebiao/tutorup/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单
// 4. 将主体信息（含角色）注入Context
// 5. 学生和导师分表存储，角色来自Token的Role claim，
//    RequireStudent/RequireTutor在认证之上追加角色检查
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录（任意角色）
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, 40100, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, 40101, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（已登出或被强制失效）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, 50000, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, 40102, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 将主体信息注入到Context（后续Handler可以使用）
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("full_name", claims.FullName)
		c.Set("access_token", tokenString)

		// 6. 继续处理请求
		c.Next()
	}
}

// RequireStudent 要求学生身份
// 认证 + 角色检查：导师的Token访问学生接口返回403
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.requireRole(jwt.RoleStudent)
}

// RequireTutor 要求导师身份
func (m *AuthMiddleware) RequireTutor() gin.HandlerFunc {
	return m.requireRole(jwt.RoleTutor)
}

func (m *AuthMiddleware) requireRole(role string) gin.HandlerFunc {
	auth := m.RequireAuth()
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}

		if GetRole(c) != role {
			response.ErrorWithCode(c, 40300, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录主体ID（学生ID或导师ID，结合角色解释）
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get("user_id"); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetRole 从Context获取当前登录主体角色
func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

// GetAccessToken 从Context获取当前请求的Access Token（登出时加黑名单用）
func GetAccessToken(c *gin.Context) string {
	if token, exists := c.Get("access_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetUserID 从Context获取主体ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么角色检查放中间件而不是Handler？
//    - 角色约束属于路由属性（/bookings只服务学生），集中声明不易遗漏
//    - Handler拿到的Context保证已通过认证+角色双重检查
//
// 2. c.Abort() vs c.Next()
//    - c.Abort(): 终止后续Handler执行（用于鉴权失败）
//    - c.Next(): 继续执行后续Handler
//
// 3. 安全建议
//    - 始终检查Token黑名单（防止已登出Token继续使用）
//    - 主体ID永远取自Token，绝不信任请求体里的student_id

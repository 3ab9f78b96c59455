package core

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, auth *AuthService, users UserRepository, hackathons HackathonRepository, audit AuditRepository) *gin.Engine {
	r := gin.Default()

	r.Use(OriginMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/login", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
				Remember bool   `json:"remember"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			sess, err := auth.Login(c.Request.Context(), req.Username, req.Password, req.Remember)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					// Deliberately the same response for unknown user and wrong password.
					respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "username or password is incorrect")
					return
				}
				respondStoreError(c, err, "")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"token":     sess.Token,
				"role":      sess.Role,
				"expiresAt": sess.ExpiresAt.UTC().Format(time.RFC3339),
			})
		})

		api.POST("/register", func(c *gin.Context) {
			var req struct {
				Username     string `json:"username"`
				Password     string `json:"password"`
				RequestAdmin bool   `json:"requestAdmin"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			u, err := auth.Register(c.Request.Context(), req.Username, req.Password, req.RequestAdmin)
			if err != nil {
				switch {
				case errors.Is(err, ErrInvalidInput):
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
				case errors.Is(err, ErrConflict):
					respondError(c, http.StatusConflict, "CONFLICT", "username already exists")
				default:
					respondStoreError(c, err, "")
				}
				return
			}

			c.JSON(http.StatusCreated, gin.H{
				"username":     u.Username,
				"role":         u.Role,
				"requestAdmin": u.RequestAdmin,
			})
		})

		api.GET("/validate", Authorize(auth), func(c *gin.Context) {
			sess := principalFrom(c)
			c.JSON(http.StatusOK, gin.H{
				"username":  sess.Username,
				"role":      sess.Role,
				"expiresAt": sess.ExpiresAt.UTC().Format(time.RFC3339),
			})
		})

		api.POST("/logout", Authorize(auth), func(c *gin.Context) {
			sess := principalFrom(c)
			if err := auth.Logout(c.Request.Context(), sess.Token); err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to revoke session")
				return
			}
			c.Status(http.StatusNoContent)
		})

		adminUsers := api.Group("/users", Authorize(auth, RoleAdmin))
		{
			adminUsers.GET("", func(c *gin.Context) {
				items, err := users.List(c.Request.Context())
				if err != nil {
					respondStoreError(c, err, "")
					return
				}
				c.JSON(http.StatusOK, items)
			})

			adminUsers.POST("", func(c *gin.Context) {
				var req struct {
					Username string `json:"username"`
					Password string `json:"password"`
					Role     string `json:"role"`
				}
				if err := c.ShouldBindJSON(&req); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
					return
				}
				req.Username = strings.TrimSpace(req.Username)
				if req.Username == "" || req.Password == "" {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
					return
				}
				if req.Role == "" {
					req.Role = RoleMember
				}
				if !ValidRole(req.Role) {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid role")
					return
				}

				hash, err := auth.HashPassword(req.Password)
				if err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to hash password")
					return
				}

				actor := principalFrom(c).Username
				u := UserRecord{
					Username:     req.Username,
					PasswordHash: hash,
					Role:         req.Role,
					CreatedBy:    actor,
				}
				if err := users.Create(c.Request.Context(), u); err != nil {
					if errors.Is(err, ErrConflict) {
						respondError(c, http.StatusConflict, "CONFLICT", "username already exists")
						return
					}
					respondStoreError(c, err, "")
					return
				}

				c.JSON(http.StatusCreated, gin.H{"username": u.Username, "role": u.Role})
			})

			adminUsers.PUT("/:username", func(c *gin.Context) {
				var req struct {
					Password *string `json:"password"`
					Role     *string `json:"role"`
				}
				if err := c.ShouldBindJSON(&req); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
					return
				}
				if req.Password == nil && req.Role == nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "nothing to update")
					return
				}

				var patch UserPatch
				if req.Role != nil {
					if !ValidRole(*req.Role) {
						respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid role")
						return
					}
					patch.Role = req.Role
				}
				if req.Password != nil {
					if *req.Password == "" {
						respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "password must not be empty")
						return
					}
					hash, err := auth.HashPassword(*req.Password)
					if err != nil {
						respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to hash password")
						return
					}
					patch.PasswordHash = &hash
				}

				actor := principalFrom(c).Username
				u, err := users.Update(c.Request.Context(), c.Param("username"), patch, actor)
				if err != nil {
					respondStoreError(c, err, "user not found")
					return
				}
				c.JSON(http.StatusOK, gin.H{"username": u.Username, "role": u.Role})
			})

			adminUsers.DELETE("/:username", func(c *gin.Context) {
				actor := principalFrom(c).Username
				username := c.Param("username")
				if err := users.Delete(c.Request.Context(), username, actor); err != nil {
					respondStoreError(c, err, "user not found")
					return
				}
				c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
			})
		}

		api.GET("/audit", Authorize(auth, RoleAdmin), func(c *gin.Context) {
			items, err := audit.List(c.Request.Context())
			if err != nil {
				respondStoreError(c, err, "")
				return
			}
			c.JSON(http.StatusOK, items)
		})

		// Reading event records requires no authentication.
		api.GET("/hackathons", func(c *gin.Context) {
			items, err := hackathons.List(c.Request.Context())
			if err != nil {
				respondStoreError(c, err, "")
				return
			}
			c.JSON(http.StatusOK, items)
		})

		api.GET("/hackathons/:id", func(c *gin.Context) {
			id, ok := parseID(c)
			if !ok {
				return
			}
			h, err := hackathons.Get(c.Request.Context(), id)
			if err != nil {
				respondStoreError(c, err, "hackathon not found")
				return
			}
			c.JSON(http.StatusOK, h)
		})

		api.POST("/hackathons", Authorize(auth, RoleAdmin, RoleEditor), func(c *gin.Context) {
			var req Hackathon
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
				return
			}

			actor := principalFrom(c).Username
			h, err := hackathons.Create(c.Request.Context(), req, actor)
			if err != nil {
				respondStoreError(c, err, "")
				return
			}
			c.JSON(http.StatusCreated, h)
		})

		api.PUT("/hackathons/:id", Authorize(auth, RoleAdmin, RoleEditor), func(c *gin.Context) {
			id, ok := parseID(c)
			if !ok {
				return
			}
			var req Hackathon
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
				return
			}

			actor := principalFrom(c).Username
			h, err := hackathons.Update(c.Request.Context(), id, req, actor)
			if err != nil {
				respondStoreError(c, err, "hackathon not found")
				return
			}
			c.JSON(http.StatusOK, h)
		})

		api.DELETE("/hackathons/:id", Authorize(auth, RoleAdmin), func(c *gin.Context) {
			id, ok := parseID(c)
			if !ok {
				return
			}
			if err := hackathons.Delete(c.Request.Context(), id); err != nil {
				respondStoreError(c, err, "hackathon not found")
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "hackathon deleted"})
		})
	}

	return r
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, false
	}
	return id, true
}

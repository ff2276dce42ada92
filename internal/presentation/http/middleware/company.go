package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	infraRepo "github.com/retailops/backoffice-api/internal/infrastructure/repository"
	"github.com/retailops/backoffice-api/internal/presentation/http/dto/response"
)

// CompanyMiddleware propagates the authenticated user's company into the
// request context so repositories scope every query to it. Super admins may
// target another company with the X-Company-ID header, or skip scoping
// entirely when no override is given. Must run after AuthMiddleware.
func CompanyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyIDVal, exists := c.Get("company_id")
		if !exists {
			response.BadRequest(c, "Company context required")
			c.Abort()
			return
		}

		companyID, ok := companyIDVal.(uuid.UUID)
		if !ok || companyID == uuid.Nil {
			response.BadRequest(c, "Invalid company context")
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		roleVal, _ := c.Get("user_role")
		if role, ok := roleVal.(string); ok && role == entity.RoleSuperAdmin {
			if override := c.GetHeader("X-Company-ID"); override != "" {
				overrideID, err := uuid.Parse(override)
				if err != nil {
					response.BadRequest(c, "Invalid X-Company-ID header")
					c.Abort()
					return
				}
				ctx = infraRepo.WithCompany(ctx, overrideID)
			} else {
				ctx = infraRepo.WithSkipCompanyScope(ctx, true)
			}
		} else {
			ctx = infraRepo.WithCompany(ctx, companyID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetCompanyID extracts the company ID from the Gin context
func GetCompanyID(c *gin.Context) *uuid.UUID {
	companyIDVal, exists := c.Get("company_id")
	if !exists {
		return nil
	}
	companyID, ok := companyIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &companyID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	return GetUserRole(c) == entity.RoleSuperAdmin
}

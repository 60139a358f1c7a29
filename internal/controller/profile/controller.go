// Package profile provides account management endpoints: listing and editing
// user profiles plus the change-password flow for the current user.
package profile

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/model"
	"TalentSift-backend/internal/utilities"
)

// minPasswordLen matches the registration rule.
const minPasswordLen = 8

// Controller handles profile related endpoints.
type Controller struct {
	DB  *database.DBinstanceStruct
	Log *zap.SugaredLogger
}

// NewController creates a new instance of Controller.
func NewController(db *database.DBinstanceStruct, log *zap.SugaredLogger) *Controller {
	return &Controller{
		DB:  db,
		Log: log,
	}
}

type createInfo struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
	Tel      *string `json:"tel"`
}

type updateInfo struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Tel      *string `json:"tel"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type changePasswordInfo struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Create provisions a recruiter account. Unlike self registration no token is
// issued; the new user logs in on their own.
func (pc *Controller) Create(c *gin.Context) {
	var info createInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username and password must be provided",
		})
		return
	}

	if len(info.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	if taken, err := pc.usernameTaken(c, info.Username); err != nil || taken {
		return
	}
	if info.Email != nil {
		if taken, err := pc.emailTaken(c, *info.Email); err != nil || taken {
			return
		}
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Username: info.Username,
		Password: hashedPassword,
		Email:    info.Email,
		Tel:      info.Tel,
		Role:     model.RoleRecruiter,
	}
	if err := pc.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	pc.Log.Infow("profile created", "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

// List returns every user profile.
func (pc *Controller) List(c *gin.Context) {
	var users []model.User
	if err := pc.DB.Order("username ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve users: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get returns one profile looked up by username or user id.
func (pc *Controller) Get(c *gin.Context) {
	user, ok := pc.findUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update edits one profile. Every field is optional; username and email
// changes are rejected when the value is already taken.
func (pc *Controller) Update(c *gin.Context) {
	user, ok := pc.findUser(c)
	if !ok {
		return
	}

	var info updateInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid update payload"})
		return
	}

	updates := map[string]interface{}{}

	if info.Username != nil && *info.Username != user.Username {
		if taken, err := pc.usernameTaken(c, *info.Username); err != nil || taken {
			return
		}
		updates["username"] = *info.Username
	}
	if info.Email != nil && (user.Email == nil || *info.Email != *user.Email) {
		if taken, err := pc.emailTaken(c, *info.Email); err != nil || taken {
			return
		}
		updates["email"] = *info.Email
	}
	if info.Tel != nil {
		updates["tel"] = *info.Tel
	}
	if info.Password != nil {
		if len(*info.Password) < minPasswordLen {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Password should longer or equal to 8 characters",
			})
			return
		}
		hashedPassword, err := utilities.HashPassword(*info.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
			})
			return
		}
		updates["password"] = hashedPassword
	}
	if info.Role != nil {
		if !utilities.Contains([]string{model.RoleRecruiter, model.RoleAdmin}, *info.Role) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown role: %s", *info.Role),
			})
			return
		}
		updates["role"] = *info.Role
	}

	if len(updates) > 0 {
		if err := pc.DB.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
			})
			return
		}
	}

	if err := pc.DB.Where("id = ?", user.ID).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to reload user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes one profile.
func (pc *Controller) Delete(c *gin.Context) {
	user, ok := pc.findUser(c)
	if !ok {
		return
	}

	if err := pc.DB.Delete(&model.User{}, "id = ?", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete user: %s", err.Error()),
		})
		return
	}

	pc.Log.Infow("profile deleted", "username", user.Username)
	c.Status(http.StatusNoContent)
}

// ChangePassword replaces the current user's password after verifying the
// existing one.
func (pc *Controller) ChangePassword(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info changePasswordInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Current and new password must be provided",
		})
		return
	}

	if !utilities.VerifyPassword(info.CurrentPassword, user.Password) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Current password is incorrect",
		})
		return
	}

	if len(info.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	if err := pc.DB.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("password", hashedPassword).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update password: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Password changed successfully"})
}

// usernameTaken answers 409 itself when the username exists. The error return
// reports a database failure, also already answered.
func (pc *Controller) usernameTaken(c *gin.Context, username string) (bool, error) {
	var existing model.User
	err := pc.DB.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Username already exists"})
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return false, err
	}
}

// emailTaken mirrors usernameTaken for the email column.
func (pc *Controller) emailTaken(c *gin.Context, email string) (bool, error) {
	var existing model.User
	err := pc.DB.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Email already exists"})
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return false, err
	}
}

// findUser loads a user from the user_id path parameter, accepting either a
// username or a user id, answering 404 itself when no row matches.
func (pc *Controller) findUser(c *gin.Context) (model.User, bool) {
	key := c.Param("user_id")

	var user model.User
	err := pc.DB.Where("username = ?", key).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			err = pc.DB.Where("id = ?", id).First(&user).Error
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
		}
		return user, false
	}
	return user, true
}

package auth

import (
	"errors"
	"strings"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/config"
	"farmq-backend/internal/database"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FarmName  string `json:"farm_name"`
	Region    string `json:"region"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	FarmName  *string `json:"farm_name"`
	Region    *string `json:"region"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FarmName  string `json:"farm_name"`
	Region    string `json:"region"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FarmName:  u.FarmName,
		Region:    u.Region,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/auth/register
func RegisterHandler(regions *catalog.Regions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Region = strings.TrimSpace(body.Region)

		if body.Email == "" || body.Password == "" {
			return apierror.BadRequest("Email and password are required")
		}
		if len(body.Password) < minPasswordLen {
			return apierror.BadRequest("Password must be at least 8 characters")
		}
		if body.Region != "" && !regions.Known(body.Region) {
			return apierror.BadRequest("Unknown region: " + body.Region)
		}

		var count int64
		if err := database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return apierror.Internal("Failed to create user").WithDetails("Database error: " + err.Error())
		}
		if count > 0 {
			return apierror.Conflict("Email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return apierror.Internal("Failed to hash password")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(body.FirstName),
			LastName:     strings.TrimSpace(body.LastName),
			FarmName:     strings.TrimSpace(body.FarmName),
			Region:       body.Region,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return apierror.Internal("Failed to create user").WithDetails("Database error: " + err.Error())
		}

		logger.FromCtx(c).WithField("user_id", user.ID.String()).Info("user registered")
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return apierror.Unauthorized("Invalid email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return apierror.Unauthorized("Invalid email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, &user)
		if err != nil {
			return apierror.Internal("Failed to issue token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.Unauthorized("Unauthorized").WithDetails("user no longer exists")
			}
			return apierror.Internal("Failed to load profile").WithDetails("Database error: " + err.Error())
		}

		return c.JSON(toUserResponse(&user))
	}
}

// PUT /api/auth/profile
func UpdateProfileHandler(regions *catalog.Regions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return apierror.Unauthorized("Unauthorized").WithDetails("user no longer exists")
		}

		if body.FirstName != nil {
			user.FirstName = strings.TrimSpace(*body.FirstName)
		}
		if body.LastName != nil {
			user.LastName = strings.TrimSpace(*body.LastName)
		}
		if body.FarmName != nil {
			user.FarmName = strings.TrimSpace(*body.FarmName)
		}
		if body.Region != nil {
			region := strings.TrimSpace(*body.Region)
			if region != "" && !regions.Known(region) {
				return apierror.BadRequest("Unknown region: " + region)
			}
			user.Region = region
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return apierror.Internal("Failed to update profile").WithDetails("Database error: " + err.Error())
		}

		return c.JSON(toUserResponse(&user))
	}
}

// Package middleware contains HTTP middleware functions for the HobbyHokej API.
// Middleware sits between the HTTP server and route handlers and runs on every
// request that passes through it: authentication and role checks live here.
package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	// jwt is used to parse JSON Web Tokens (JWTs) from the Authorization header
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PetrH630/hobbyhokej/internal/config"
	"github.com/PetrH630/hobbyhokej/internal/models"
)

// Keys under which Auth stores the caller in c.Locals.
const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
)

// Claims defines the data we expect inside a Clerk JWT payload.
// Besides the standard fields (Subject = Clerk user ID, expiry), the Clerk JWT template adds:
//
//	"role":  "{{user.public_metadata.role}}"
//	"email": "{{user.primary_email_address}}"
//	"name":  "{{user.full_name}}"
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth returns a Fiber middleware handler that:
//  1. Reads the JWT from "Authorization: Bearer <token>" (or ?access_token= for EventSource,
//     which cannot set headers)
//  2. Verifies it with CLERK_SECRET_KEY when one is configured
//  3. Finds the matching account (or creates it on first visit) and syncs its role
//  4. Stores the account UUID and role in c.Locals for the handlers
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := parseClaims(cfg, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		clerkUserID := claims.Subject
		if clerkUserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		user, err := syncUser(db.WithContext(c.UserContext()), clerkUserID, claims)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserRole, string(user.Role))
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("access_token")
}

// parseClaims verifies the HMAC signature when a secret is configured. Without one
// (local development only) the token is parsed unverified.
func parseClaims(cfg *config.Config, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if cfg.ClerkSecretKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("token verification is not configured")
		}
		if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.ClerkSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// syncUser implements the lazy account sync: the first authenticated request creates
// the users row, later ones pick up role changes made in Clerk.
func syncUser(db *gorm.DB, clerkUserID string, claims *Claims) (*models.User, error) {
	role := roleFromClaim(claims.Role)

	var user models.User
	err := db.Where("clerk_id = ?", clerkUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		email := claims.Email
		if email == "" {
			email = fmt.Sprintf("%s@clerk.local", clerkUserID)
		}
		name := claims.Name
		if name == "" {
			name = "User"
		}
		user = models.User{
			ClerkID:     &clerkUserID,
			DisplayName: name,
			Email:       email,
			Role:        role,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Role != role && claims.Role != "" {
		if err := db.Model(&user).Update("role", role).Error; err != nil {
			return nil, err
		}
		user.Role = role
	}
	if claims.Email != "" && claims.Email != user.Email {
		if err := db.Model(&user).Update("email", claims.Email).Error; err != nil {
			return nil, err
		}
		user.Email = claims.Email
	}
	return &user, nil
}

// roleFromClaim converts the raw role claim into a UserRole, defaulting to the
// least privileged role.
func roleFromClaim(s string) models.UserRole {
	switch s {
	case "admin":
		return models.UserRoleAdmin
	case "manager":
		return models.UserRoleManager
	default:
		return models.UserRoleUser
	}
}

// UserID returns the authenticated account id stored by Auth.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	s, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Role returns the authenticated account role stored by Auth.
func Role(c *fiber.Ctx) models.UserRole {
	s, _ := c.Locals(LocalUserRole).(string)
	return models.UserRole(s)
}

package api

import (
	"net/http"

	"github.com/ghzx55/graderevive/internal/auth"
	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/db"
	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userIDKey = "userID"

// maxGPA is the top of the 4.5 scale.
var maxGPA, _ = grade.Point("A+")

type AccountHandler struct {
	repo db.Repository
	jwt  *auth.JWTService
	cfg  *config.Config
	log  zerolog.Logger
}

func NewAccountHandler(repo db.Repository, jwtService *auth.JWTService, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		repo: repo,
		jwt:  jwtService,
		cfg:  cfg,
		log:  logger.Get(),
	}
}

// AuthMiddleware requires a valid bearer token and stores its user id in
// the context.
func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.SignupResponse{Error: "A valid email and a password of at least 6 characters are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, err, "Failed to hash password")
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), req.Email, hash)
	if err != nil {
		if errors.Is(err, errors.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, model.SignupResponse{Error: "Email already registered"})
			return
		}
		h.internalError(c, err, "Failed to create user")
		return
	}

	h.log.Info().Int64("user_id", user.ID).Msg("User signed up")
	c.JSON(http.StatusCreated, model.SignupResponse{Success: true, Message: "Signup successful"})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.LoginResponse{Error: "Email and password are required"})
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, errors.ErrUserNotFound) {
		h.internalError(c, err, "Failed to load user")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, model.LoginResponse{Error: "Invalid email or password"})
		return
	}

	token, expiresIn, err := h.jwt.GenerateToken(user)
	if err != nil {
		h.internalError(c, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, ExpiresIn: expiresIn})
}

func (h *AccountHandler) GetUser(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) UpdateUser(c *gin.Context) {
	user, ok := h.updateEmail(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) DeleteUser(c *gin.Context) {
	userID := c.GetInt64(userIDKey)
	if err := h.repo.DeleteUser(c.Request.Context(), userID); err != nil {
		h.accountError(c, err)
		return
	}

	h.log.Info().Int64("user_id", userID).Msg("User deleted")
	c.JSON(http.StatusOK, model.MessageResponse{Message: "User deleted"})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	h.respondProfile(c, user)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.updateEmail(c)
	if !ok {
		return
	}
	h.respondProfile(c, user)
}

// DeleteProfile clears the profile data kept beside the login, which is the
// stored GPA. The account itself stays.
func (h *AccountHandler) DeleteProfile(c *gin.Context) {
	err := h.repo.DeleteGPA(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil && !errors.Is(err, errors.ErrGPANotFound) {
		h.accountError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Profile cleared"})
}

func (h *AccountHandler) GetGPA(c *gin.Context) {
	record, err := h.repo.GetGPA(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		h.accountError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AccountHandler) UpdateGPA(c *gin.Context) {
	var req model.GPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gpa is required"})
		return
	}
	if *req.GPA < 0 || *req.GPA > maxGPA {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gpa must be between 0 and 4.5"})
		return
	}

	record, err := h.repo.UpsertGPA(c.Request.Context(), c.GetInt64(userIDKey), *req.GPA)
	if err != nil {
		h.accountError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AccountHandler) DeleteGPA(c *gin.Context) {
	if err := h.repo.DeleteGPA(c.Request.Context(), c.GetInt64(userIDKey)); err != nil {
		h.accountError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "GPA deleted"})
}

func (h *AccountHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name + "-account",
		"version": h.cfg.App.Version,
	})
}

func (h *AccountHandler) currentUser(c *gin.Context) (*model.User, bool) {
	user, err := h.repo.GetUserByID(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		h.accountError(c, err)
		return nil, false
	}
	return user, true
}

func (h *AccountHandler) updateEmail(c *gin.Context) (*model.User, bool) {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return nil, false
	}

	user, err := h.repo.UpdateUserEmail(c.Request.Context(), c.GetInt64(userIDKey), req.Email)
	if err != nil {
		h.accountError(c, err)
		return nil, false
	}
	return user, true
}

func (h *AccountHandler) respondProfile(c *gin.Context, user *model.User) {
	profile := model.Profile{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	record, err := h.repo.GetGPA(c.Request.Context(), user.ID)
	switch {
	case err == nil:
		profile.GPA = &record.GPA
		profile.GPAAt = &record.UpdatedAt
	case !errors.Is(err, errors.ErrGPANotFound):
		h.accountError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) accountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, errors.ErrGPANotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "GPA not found"})
	case errors.Is(err, errors.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	default:
		h.internalError(c, err, "Account operation failed")
	}
}

func (h *AccountHandler) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

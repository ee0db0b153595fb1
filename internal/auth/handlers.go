package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/entities"
)

// VerificationMailEnqueuer schedules delivery of a verification mail.
// Implemented by the task queue; nil disables verification mails.
type VerificationMailEnqueuer interface {
	EnqueueVerificationMail(userID uint) error
}

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	verifier       *Verifier
	mailEnqueuer   VerificationMailEnqueuer
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, verifier *Verifier, mailEnqueuer VerificationMailEnqueuer) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		verifier:       verifier,
		mailEnqueuer:   mailEnqueuer,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.POST("/register", ac.Register)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
	router.GET("/verify-email/:token", ac.VerifyEmail)
}

type registerRequest struct {
	Username    string `form:"username" json:"username"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	FirstName   string `form:"first_name" json:"first_name"`
	LastName    string `form:"last_name" json:"last_name"`
	Department  string `form:"department" json:"department"`
	PhoneNumber string `form:"phone_number" json:"phone_number"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// userResponse is the serialized shape of an account in auth responses.
func userResponse(user *entities.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"department":     user.Department,
		"email_verified": user.EmailVerified,
	}
}

// Register handles lecturer registration. A successful registration logs
// the new user in immediately and schedules a verification mail.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Register(RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	// Login the user after registration
	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			log.Printf("Failed to create session for new user %s: %v", user.Username, err)
		}
	}

	if ac.mailEnqueuer != nil {
		if err := ac.mailEnqueuer.EnqueueVerificationMail(user.ID); err != nil {
			// Registration already succeeded; the mail can be re-sent later.
			log.Printf("Failed to enqueue verification mail for %s: %v", user.Username, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    userResponse(user),
	})
}

// Login handles credential verification and session creation. All
// credential failures share one generic message.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountInactive) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"next":    sanitizeRedirectPath(req.Next),
		"user":    userResponse(user),
	})
}

// Logout destroys the session. Destroying a session that no longer
// exists succeeds as well, so repeated logouts are harmless.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		if err := ac.sessionManager.DestroySession(c.Request); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// VerifyEmail consumes a verification token from the mailed link.
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	if ac.verifier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "email verification is not enabled"})
		return
	}

	user, err := ac.verifier.Verify(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyVerified):
			c.JSON(http.StatusOK, gin.H{"message": "email already verified"})
		case errors.Is(err, ErrVerificationExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification link expired, please request a new one"})
		case errors.Is(err, ErrVerificationInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification link"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "email verified",
		"user":    userResponse(user),
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	audit       Auditor
	checkDomain validators.EmailDomainChecker
	validate    *validator.Validate
	now         func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, audit Auditor) *AuthHandler {
	return &AuthHandler{
		db:          db,
		config:      cfg,
		audit:       audit,
		checkDomain: validators.IsEmailDomainValid,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"max=20"`
	Role     string `json:"role" binding:"required,oneof=STUDENT TEACHER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid registration payload.")
		return
	}

	email, ok := h.normalizeEmail(req.Email)
	if !ok {
		httperr.BadRequest(c, "invalid_email", "Invalid e-mail address.")
		return
	}

	if h.config.VerifyEmailDomain && !h.checkDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not accept mail.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		writeError(c, err, "register_failed")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "email_already_registered", "E-mail already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err, "failed_to_hash_password")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.Role(req.Role),
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role != models.RoleTeacher {
			return nil
		}
		return tx.Create(&models.TeacherProfile{UserID: user.ID, Currency: "USD"}).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_registered", "E-mail already registered.")
			return
		}
		writeError(c, err, "failed_to_create_user")
		return
	}

	h.audit.Dispatch(auditEvent(user.ID, "user_registered", "user", user.ID, gin.H{"role": user.Role}))

	token, err := h.generateToken(&user)
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "E-mail and password are required.")
		return
	}

	email, ok := h.normalizeEmail(req.Email)
	if !ok {
		httperr.BadRequest(c, "invalid_email", "Invalid e-mail address.")
		return
	}

	var user models.User
	if err := h.db.
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
			return
		}
		writeError(c, err, "login_failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.FromContext(c).Info("login_rejected", zap.Uint("user_id", user.ID))
		httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(&user),
		"token": token,
	})
}

// normalizeEmail trims and lower-cases raw before checking its format, so
// surrounding whitespace never fails validation.
func (h *AuthHandler) normalizeEmail(raw string) (string, bool) {
	email := validators.NormalizeEmail(raw)
	if err := h.validate.Var(email, "required,email,max=100"); err != nil {
		return "", false
	}
	return email, true
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	ttl := h.config.JWTExpiration
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := h.now()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scout-hand/models"
)

// ScoutService verwaltet Scout-Accounts und löst API-Tokens auf.
type ScoutService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewScoutService erstellt eine neue Instanz des ScoutService.
func NewScoutService(db *gorm.DB, logger *zap.Logger) *ScoutService {
	return &ScoutService{DB: db, Logger: logger}
}

// ScoutInput sind die Felder für einen neuen Scout-Account.
type ScoutInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Create legt einen Scout mit frischem Access-Token an. Das Token wird nur
// in der Antwort dieses einen Aufrufs ausgegeben.
func (s *ScoutService) Create(in ScoutInput) (*models.Scout, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = models.RoleScout
	}
	if role != models.RoleScout && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	scout := &models.Scout{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		AccessToken: uuid.NewString(),
		Role:        role,
		Active:      true,
	}
	if err := s.DB.Create(scout).Error; err != nil {
		s.Logger.Error("Scout konnte nicht angelegt werden", zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Scout angelegt", zap.Uint("scout_id", scout.ID), zap.String("role", scout.Role))
	return scout, nil
}

// List gibt alle Scout-Accounts zurück.
func (s *ScoutService) List() ([]models.Scout, error) {
	var scouts []models.Scout
	if err := s.DB.Order("created_at asc").Find(&scouts).Error; err != nil {
		return nil, err
	}
	return scouts, nil
}

// Deactivate sperrt einen Scout-Account. Accounts werden nie gelöscht,
// damit die Scout-Zuordnung alter Leads erhalten bleibt.
func (s *ScoutService) Deactivate(id uint) error {
	var scout models.Scout
	if err := s.DB.First(&scout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: scout %d", ErrNotFound, id)
		}
		return err
	}
	return s.DB.Model(&scout).Update("active", false).Error
}

// ByToken löst ein API-Token zu einem aktiven Scout auf. Wird von der
// Auth-Middleware für jeden Request aufgerufen.
func (s *ScoutService) ByToken(token string) (*models.Scout, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrForbidden)
	}
	var scout models.Scout
	if err := s.DB.Where("access_token = ? AND active = ?", token, true).First(&scout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown token", ErrForbidden)
		}
		return nil, err
	}
	return &scout, nil
}

// EnsureSeedAdmin legt beim Start einen Admin-Account an, falls noch keiner
// existiert. Mit ADMIN_SEED_TOKEN ist das Token reproduzierbar, sonst wird
// eines generiert und einmalig geloggt.
func (s *ScoutService) EnsureSeedAdmin(email, token string) error {
	var count int64
	if err := s.DB.Model(&models.Scout{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if token == "" {
		token = uuid.NewString()
	}
	admin := &models.Scout{
		Name:        "Admin",
		Email:       email,
		AccessToken: token,
		Role:        models.RoleAdmin,
		Active:      true,
	}
	if err := s.DB.Create(admin).Error; err != nil {
		return err
	}
	s.Logger.Info("Seed-Admin angelegt", zap.String("email", email), zap.String("token", token))
	return nil
}

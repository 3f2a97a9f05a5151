package repositories

import (
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
)

// RegistrationPolicy - флаг регистрации и набор кодов приглашения.
// Общая для обеих реализаций Storage.
type RegistrationPolicy struct {
	enabled bool
	codes   mapset.Set[string]
	roles   map[string]entities.Role
}

func NewRegistrationPolicy(enabled bool, codes map[string]string, logger *zap.Logger) *RegistrationPolicy {
	p := &RegistrationPolicy{
		enabled: enabled,
		codes:   mapset.NewSet[string](),
		roles:   make(map[string]entities.Role, len(codes)),
	}
	for code, role := range codes {
		r := entities.Role(role)
		if !r.IsValid() {
			logger.Warn("Код приглашения пропущен: неизвестная роль",
				zap.String("code", code), zap.String("role", role))
			continue
		}
		p.codes.Add(code)
		p.roles[code] = r
	}
	return p
}

func (p *RegistrationPolicy) IsRegistrationEnabled() bool {
	return p.enabled
}

func (p *RegistrationPolicy) IsValidInvitationCode(code string) bool {
	return p.codes.Contains(code)
}

func (p *RegistrationPolicy) RoleForInvitationCode(code string) (entities.Role, bool) {
	if !p.codes.Contains(code) {
		return "", false
	}
	return p.roles[code], true
}

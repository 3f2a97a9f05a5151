package diagnostics

import (
	"strings"

	"inventory-system/pkg/config"
)

const masked = "********"

func mask(s string) string {
	if s == "" {
		return ""
	}
	return masked
}

func upper(s string) string {
	return strings.ToUpper(s)
}

// Environment - снимок настроек подключения без секретов.
func Environment(cfg *config.Config) map[string]interface{} {
	roleLogins := make(map[string]string)
	rolePasswords := make(map[string]bool)
	for _, role := range config.RoleNames() {
		roleLogins[role] = cfg.Database.RoleLogin(role)
		rolePasswords[role] = cfg.Database.RolePasswords[role] != ""
	}

	return map[string]interface{}{
		"storage_driver":            cfg.Storage.Driver,
		"asset_status_sync":         cfg.Storage.AssetStatusSync,
		"db_host":                   cfg.Database.Host,
		"db_port":                   cfg.Database.Port,
		"db_name":                   cfg.Database.Name,
		"db_encrypt":                cfg.Database.Encrypt,
		"db_trust_cert":             cfg.Database.TrustCert,
		"db_auth_user":              cfg.Database.AuthUser,
		"db_auth_password":          mask(cfg.Database.AuthPassword),
		"database_url_set":          cfg.Database.DSN != "",
		"role_switching":            cfg.Database.RoleSwitching,
		"role_logins":               roleLogins,
		"role_passwords_configured": rolePasswords,
		"connect_timeout":           cfg.Database.ConnectTimeout.String(),
		"request_timeout":           cfg.Database.RequestTimeout.String(),
		"registration_enabled":      cfg.Registration.Enabled,
		"invitation_codes":          len(cfg.Registration.InvitationCodes),
		"redis_address":             cfg.Redis.Address,
		"redis_password":            mask(cfg.Redis.Password),
		"session_secret":            mask(cfg.Session.Secret),
	}
}

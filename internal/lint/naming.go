package lint

import (
	"fmt"
	"regexp"
	"strings"
)

// KnownTenants — известные tenant-префиксы (расширяемый список).
// DAG с неизвестным tenant'ом валиден, но получает warning.
var KnownTenants = map[string]bool{
	"data-engineering": true,
	"analytics":        true,
	"ml-team":          true,
	"data-science":     true,
	"platform":         true,
	"devops":           true,
}

var (
	// tenant: lowercase, цифры, дефисы
	tenantRe = regexp.MustCompile(`^[a-z0-9-]+$`)

	// name: lowercase, цифры, подчёркивания
	nameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// CheckNaming проверяет dag id на соответствие конвенции "{tenant}_{name}".
//
// Возвращает ошибку при нарушении формата; warning (непустая строка) —
// для валидного id с неизвестным tenant'ом.
func CheckNaming(dagID string) (warning string, err error) {
	if dagID == "" {
		return "", fmt.Errorf("dag id is empty")
	}

	tenant, name, ok := strings.Cut(dagID, "_")
	if !ok {
		return "", fmt.Errorf("dag id %q must follow format {tenant}_{name}", dagID)
	}

	if tenant == "" {
		return "", fmt.Errorf("dag id %q has empty tenant prefix", dagID)
	}
	if name == "" {
		return "", fmt.Errorf("dag id %q has empty name after tenant prefix", dagID)
	}

	if !tenantRe.MatchString(tenant) {
		return "", fmt.Errorf("dag id %q has invalid tenant format (use lowercase, alphanumeric, hyphens)", dagID)
	}
	if !nameRe.MatchString(name) {
		return "", fmt.Errorf("dag id %q has invalid name format (use lowercase, alphanumeric, underscores)", dagID)
	}

	if !KnownTenants[tenant] {
		return fmt.Sprintf("unknown tenant %q (dag id is valid but tenant not in known list)", tenant), nil
	}

	return "", nil
}
